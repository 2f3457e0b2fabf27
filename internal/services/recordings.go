package services

import (
	"context"
	"io"

	"github.com/desertthunder/parle/internal/models"
)

// RecordingsAPI wraps /recordings.
type RecordingsAPI struct {
	r resource[models.Recording]
}

// NewRecordingsAPI creates a [RecordingsAPI] on top of api.
func NewRecordingsAPI(api *APIService) *RecordingsAPI {
	return &RecordingsAPI{r: resource[models.Recording]{api: api, base: "/recordings"}}
}

// Upload stores an audio file and returns the server's descriptor (typically the audio URL),
// which is then passed to [RecordingsAPI.Create].
func (s *RecordingsAPI) Upload(ctx context.Context, filename string, content io.Reader) (models.Payload, error) {
	var out models.Payload
	file := audioFile(filename, content)
	file.Field = "file"
	if err := s.r.api.Upload(ctx, "/recordings/upload", nil, []FormFile{file}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RecordingsAPI) List(ctx context.Context, f models.RecordingFilter) ([]models.Recording, error) {
	return s.r.list(ctx, f)
}

func (s *RecordingsAPI) Get(ctx context.Context, id string) (*models.Recording, error) {
	return s.r.get(ctx, id)
}

func (s *RecordingsAPI) Create(ctx context.Context, in models.RecordingCreate) (*models.Recording, error) {
	return s.r.create(ctx, in)
}

func (s *RecordingsAPI) Update(ctx context.Context, id string, in models.RecordingUpdate) (*models.Recording, error) {
	return s.r.update(ctx, id, in)
}

func (s *RecordingsAPI) Delete(ctx context.Context, id string) error {
	return s.r.delete(ctx, id)
}
