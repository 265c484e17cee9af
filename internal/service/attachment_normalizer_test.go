package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/storage"
	apperrors "github.com/aniketsharma889/faculty-appraisal-system-sub001/pkg/util/errorutil"
)

type fakeFileStore struct {
	failOn string
	stored []string
}

func (f *fakeFileStore) Store(_ context.Context, input storage.UploadInput) (string, error) {
	if input.FileName == f.failOn {
		return "", errors.New("bucket unreachable")
	}
	f.stored = append(f.stored, input.FileName)
	return "https://files.example.edu/" + input.FileName, nil
}

func newTestNormalizer(store storage.FileStore) *AttachmentNormalizer {
	n := NewAttachmentNormalizer(store)
	n.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return n
}

func TestNormalize_AppendsUploadsAfterExisting(t *testing.T) {
	normalizer := newTestNormalizer(&fakeFileStore{})
	existing := []domain.FileRef{{FileName: "old.pdf", FileURL: "https://files.example.edu/old.pdf"}}

	refs, err := normalizer.Normalize(context.Background(), existing,
		[]storage.UploadInput{{FileName: "new.pdf"}})
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "old.pdf", refs[0].FileName)
	assert.Equal(t, "new.pdf", refs[1].FileName)
	assert.Equal(t, "https://files.example.edu/new.pdf", refs[1].FileURL)
	assert.False(t, refs[1].UploadedAt.IsZero())
}

func TestNormalize_ParsesExistingJSONString(t *testing.T) {
	normalizer := newTestNormalizer(&fakeFileStore{})
	raw := `[{"fileName":"cert.pdf","fileUrl":"https://files.example.edu/cert.pdf"}]`

	refs, err := normalizer.Normalize(context.Background(), raw, nil)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "cert.pdf", refs[0].FileName)
}

func TestNormalize_MalformedExistingIsIgnored(t *testing.T) {
	normalizer := newTestNormalizer(&fakeFileStore{})

	refs, err := normalizer.Normalize(context.Background(), `{not json`,
		[]storage.UploadInput{{FileName: "fresh.pdf"}})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "fresh.pdf", refs[0].FileName)
}

func TestNormalize_DoesNotDeduplicate(t *testing.T) {
	normalizer := newTestNormalizer(&fakeFileStore{})
	existing := []domain.FileRef{{FileName: "same.pdf"}}

	refs, err := normalizer.Normalize(context.Background(), existing,
		[]storage.UploadInput{{FileName: "same.pdf"}})
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestNormalize_PartialFailureKeepsEarlierUploads(t *testing.T) {
	store := &fakeFileStore{failOn: "b.pdf"}
	normalizer := newTestNormalizer(store)
	existing := []domain.FileRef{{FileName: "old.pdf"}}

	refs, err := normalizer.Normalize(context.Background(), existing, []storage.UploadInput{
		{FileName: "a.pdf"},
		{FileName: "b.pdf"},
		{FileName: "c.pdf"},
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "STORAGE_UNAVAILABLE"))

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "b.pdf", domainErr.Details["file_name"])

	// old.pdf survives, a.pdf landed, b.pdf and c.pdf did not
	require.Len(t, refs, 2)
	assert.Equal(t, "old.pdf", refs[0].FileName)
	assert.Equal(t, "a.pdf", refs[1].FileName)
	assert.Equal(t, []string{"a.pdf"}, store.stored)
}
