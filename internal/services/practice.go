package services

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/desertthunder/parle/internal/models"
)

// PracticeAPI wraps the reading practice endpoints: OCR, speech analysis, TTS and summaries.
//
// Responses are analysis documents whose shape belongs to the server, so they come back as
// [models.Payload].
type PracticeAPI struct {
	api *APIService
}

// NewPracticeAPI creates a [PracticeAPI] on top of api.
func NewPracticeAPI(api *APIService) *PracticeAPI {
	return &PracticeAPI{api: api}
}

// UploadImage extracts text from an image.
func (s *PracticeAPI) UploadImage(ctx context.Context, filename string, content io.Reader) (models.Payload, error) {
	return s.upload(ctx, "/ocr/upload", nil, FormFile{Field: "file", Filename: filename, Content: content})
}

// AnalyzeText runs the text analysis on already extracted text.
func (s *PracticeAPI) AnalyzeText(ctx context.Context, text string) (models.Payload, error) {
	return s.post(ctx, "/ocr/analyze", models.TextAnalysisRequest{Text: text})
}

// AnalyzeSpeech transcribes a recording and aligns it with expectedText when given.
func (s *PracticeAPI) AnalyzeSpeech(ctx context.Context, filename string, audio io.Reader, expectedText string) (models.Payload, error) {
	return s.upload(ctx, "/speech/analyze", expectedFields(expectedText, "expected_text"), audioFile(filename, audio))
}

// AnalyzeProsody scores intonation and rhythm of a recording against expectedText.
func (s *PracticeAPI) AnalyzeProsody(ctx context.Context, filename string, audio io.Reader, expectedText string) (models.Payload, error) {
	return s.upload(ctx, "/speech/prosody", expectedFields(expectedText, "expected_text"), audioFile(filename, audio))
}

// GenerateSpeech synthesizes req.Text. An empty language means [models.DefaultSpeechLanguage].
func (s *PracticeAPI) GenerateSpeech(ctx context.Context, req models.SpeechRequest) (models.Payload, error) {
	if req.Language == "" {
		req.Language = models.DefaultSpeechLanguage
	}
	return s.post(ctx, "/tts/read", req)
}

// AudioFile downloads a generated audio file.
func (s *PracticeAPI) AudioFile(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, errMissingID
	}
	resp, err := s.api.Get(ctx, "/tts/audio/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// EvaluateSummary scores a spoken summary against sourceText.
func (s *PracticeAPI) EvaluateSummary(ctx context.Context, filename string, audio io.Reader, sourceText string) (models.Payload, error) {
	return s.upload(ctx, "/summary/evaluate", expectedFields(sourceText, "source_text"), audioFile(filename, audio))
}

// GenerateSuggestions asks for model summaries of sourceText.
func (s *PracticeAPI) GenerateSuggestions(ctx context.Context, sourceText string) (models.Payload, error) {
	return s.post(ctx, "/summary/generate", models.SuggestionRequest{SourceText: sourceText})
}

// Health reports the server status. It needs no token.
func (s *PracticeAPI) Health(ctx context.Context) (models.Payload, error) {
	var out models.Payload
	if err := s.api.DoJSON(ctx, http.MethodGet, "/health/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PracticeAPI) post(ctx context.Context, path string, in any) (models.Payload, error) {
	var out models.Payload
	if err := s.api.DoJSON(ctx, http.MethodPost, path, nil, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PracticeAPI) upload(ctx context.Context, path string, fields map[string]string, file FormFile) (models.Payload, error) {
	var out models.Payload
	if err := s.api.Upload(ctx, path, fields, []FormFile{file}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// audioTypes covers recorder formats missing from the system MIME table; the server rejects non-audio parts.
var audioTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
	".flac": "audio/flac",
}

func audioFile(filename string, audio io.Reader) FormFile {
	return FormFile{
		Field:       "audio_file",
		Filename:    filename,
		ContentType: audioTypes[strings.ToLower(filepath.Ext(filename))],
		Content:     audio,
	}
}

func expectedFields(text, field string) map[string]string {
	if text == "" {
		return nil
	}
	return map[string]string{field: text}
}
