package models

// TextAnalysisRequest is the payload for POST /ocr/analyze.
type TextAnalysisRequest struct {
	Text string `json:"text"`
}

// SpeechRequest is the payload for POST /tts/read.
type SpeechRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Slow     bool   `json:"slow"`
}

// DefaultSpeechLanguage is used when a [SpeechRequest] has no language.
const DefaultSpeechLanguage = "fr"

// SuggestionRequest is the payload for POST /summary/generate.
type SuggestionRequest struct {
	SourceText string `json:"source_text"`
}
