package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/storage"
	apperrors "github.com/aniketsharma889/faculty-appraisal-system-sub001/pkg/util/errorutil"
)

// AttachmentNormalizer merges previously stored file references with newly
// uploaded files into one ordered list.
type AttachmentNormalizer struct {
	store storage.FileStore
	now   func() time.Time
}

// NewAttachmentNormalizer constructs the normalizer.
func NewAttachmentNormalizer(store storage.FileStore) *AttachmentNormalizer {
	return &AttachmentNormalizer{store: store, now: time.Now}
}

// Normalize uploads newUploads through the file store and appends the
// resulting references after the existing ones. Order is preserved and
// nothing is de-duplicated.
//
// existingRaw may be a JSON-encoded string or an already-structured list; a
// parse failure is treated as "no existing files" so that legacy malformed
// data never blocks a resubmission. Uploads run sequentially; on the first
// failing file the references gathered so far (existing plus the uploads that
// succeeded) are returned alongside the error, so the caller can keep them
// and retry only the remainder.
func (n *AttachmentNormalizer) Normalize(ctx context.Context, existingRaw any, newUploads []storage.UploadInput) ([]domain.FileRef, error) {
	merged := parseExistingRefs(existingRaw)

	for _, upload := range newUploads {
		url, err := n.store.Store(ctx, upload)
		if err != nil {
			return merged, apperrors.NewStorageUnavailable(upload.FileName, err)
		}
		merged = append(merged, domain.FileRef{
			FileName:   upload.FileName,
			FileURL:    url,
			UploadedAt: n.now(),
		})
	}
	return merged, nil
}

func parseExistingRefs(existingRaw any) []domain.FileRef {
	switch existing := existingRaw.(type) {
	case nil:
		return []domain.FileRef{}
	case []domain.FileRef:
		return append([]domain.FileRef{}, existing...)
	case string:
		if strings.TrimSpace(existing) == "" {
			return []domain.FileRef{}
		}
		var refs []domain.FileRef
		if err := json.Unmarshal([]byte(existing), &refs); err != nil {
			// legacy malformed data; start from an empty list
			return []domain.FileRef{}
		}
		return refs
	default:
		return []domain.FileRef{}
	}
}
