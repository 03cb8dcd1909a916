package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/hukumtek/LexIntel/internal/analysis/segmenter"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// ErrPagesNotFound is returned when a version has no stored page text.
var ErrPagesNotFound = errors.New(errors.ErrCodeNotFound, "page text not found")

// PageStore persists extracted page text and the original upload per
// version.  Objects are keyed by version so reprocessing overwrites cleanly.
type PageStore struct {
	client *Client
	logger logging.Logger
}

// NewPageStore constructs a PageStore.
func NewPageStore(c *Client, log logging.Logger) *PageStore {
	return &PageStore{client: c, logger: log.Named("pagestore")}
}

func pagesKey(versionID uuid.UUID) string {
	return fmt.Sprintf("versions/%s/pages.json", versionID)
}

func sourceKey(versionID uuid.UUID, filename string) string {
	return fmt.Sprintf("versions/%s/source/%s", versionID, filename)
}

// SavePages stores the extracted page text of a version as one JSON object.
func (s *PageStore) SavePages(ctx context.Context, versionID uuid.UUID, pages []segmenter.PageText) error {
	if versionID == uuid.Nil {
		return errors.InvalidParam("version id is required")
	}
	if len(pages) == 0 {
		return errors.InvalidInput("no pages to store")
	}

	data, err := json.Marshal(pages)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode pages")
	}

	_, err = s.client.api.PutObject(ctx, s.client.bucket, pagesKey(versionID),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to store pages")
	}

	s.logger.Debug("stored page text",
		logging.String("version_id", versionID.String()),
		logging.Int("pages", len(pages)))
	return nil
}

// LoadPages returns the stored page text of a version.
func (s *PageStore) LoadPages(ctx context.Context, versionID uuid.UUID) ([]segmenter.PageText, error) {
	obj, err := s.client.api.GetObject(ctx, s.client.bucket, pagesKey(versionID), minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to open pages object")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrPagesNotFound
		}
		return nil, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to read pages object")
	}

	var pages []segmenter.PageText
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode stored pages")
	}
	return pages, nil
}

// SaveSource stores the original uploaded file of a version and returns the
// object key.
func (s *PageStore) SaveSource(ctx context.Context, versionID uuid.UUID, filename, contentType string, r io.Reader, size int64) (string, error) {
	if versionID == uuid.Nil {
		return "", errors.InvalidParam("version id is required")
	}
	if filename == "" {
		return "", errors.InvalidParam("filename is required")
	}

	key := sourceKey(versionID, filename)
	_, err := s.client.api.PutObject(ctx, s.client.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to store source file")
	}
	return key, nil
}

// DeletePages removes the stored page text of a version.
func (s *PageStore) DeletePages(ctx context.Context, versionID uuid.UUID) error {
	err := s.client.api.RemoveObject(ctx, s.client.bucket, pagesKey(versionID), minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to delete pages object")
	}
	return nil
}
