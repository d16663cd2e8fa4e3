// Package storage wraps the Supabase Storage buckets used for uploaded audio
// and generated share images.
package storage

import (
	"bytes"
	"fmt"

	storage_go "github.com/supabase-community/storage-go"
)

const (
	AudioBucket = "podcasts"
	ImageBucket = "images"
)

// ObjectStore is the object-storage surface the pipeline and handlers depend
// on. Implemented by SupabaseStore; mocked in tests.
type ObjectStore interface {
	DownloadAudio(path string) ([]byte, error)
	UploadAudio(path string, data []byte, contentType string) error
	// UploadImage stores the image and returns its public URL.
	UploadImage(path string, data []byte, contentType string) (string, error)
}

type SupabaseStore struct {
	client *storage_go.Client
}

func NewSupabaseStore(projectURL, serviceKey string) *SupabaseStore {
	return &SupabaseStore{
		client: storage_go.NewClient(projectURL+"/storage/v1", serviceKey, nil),
	}
}

func (s *SupabaseStore) DownloadAudio(path string) ([]byte, error) {
	data, err := s.client.DownloadFile(AudioBucket, path)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", path, err)
	}
	return data, nil
}

func (s *SupabaseStore) UploadAudio(path string, data []byte, contentType string) error {
	upsert := true
	_, err := s.client.UploadFile(AudioBucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return nil
}

func (s *SupabaseStore) UploadImage(path string, data []byte, contentType string) (string, error) {
	upsert := true
	_, err := s.client.UploadFile(ImageBucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return s.client.GetPublicUrl(ImageBucket, path).SignedURL, nil
}
