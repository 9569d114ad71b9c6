// internal/catalog/loader_test.go
package catalog

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type stubSource struct {
	batch Batch
	err   error
	calls int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(context.Context) (Batch, error) {
	s.calls++
	return s.batch, s.err
}

// ==========================
// Loader Tests
// ==========================

func TestLoader_FromFile(t *testing.T) {
	loader := NewLoader(FileSource{Path: filepath.Join("testdata", "careers.csv")}, nil, false, logger.NewTestLogger(t))

	cat, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, []string{"Science", "Arts", "Commerce"}, cat.Streams())
}

func TestLoader_StrictRejectsMalformed(t *testing.T) {
	loader := NewLoader(FileSource{Path: filepath.Join("testdata", "careers.csv")}, nil, true, logger.NewTestLogger(t))

	cat, err := loader.Load(context.Background())
	assert.Nil(t, cat)
	require.Error(t, err)

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeMalformedRecord, stdErr.Code)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   *stubSource
		wantCode errors.ErrorCode
	}{
		{
			name:     "plain source error is wrapped",
			source:   &stubSource{err: stderrors.New("disk on fire")},
			wantCode: errors.ErrCodeCatalogLoadFailed,
		},
		{
			name:     "standard error passes through",
			source:   &stubSource{err: errors.NewQueryTimeoutError("load_catalog")},
			wantCode: errors.ErrCodeQueryTimeout,
		},
		{
			name:     "no usable records",
			source:   &stubSource{batch: Batch{Rejected: []*errors.StandardError{errors.NewMalformedRecordError(2, "x")}}},
			wantCode: errors.ErrCodeCatalogEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(tt.source, nil, false, logger.NewTestLogger(t)).Load(context.Background())
			require.Error(t, err)

			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

func TestLoader_UsesSnapshotCache(t *testing.T) {
	_, client := setupRedis(t)
	cache := NewSnapshotCache(client, "snap", time.Minute)
	source := &stubSource{batch: Batch{Records: []models.CareerRecord{
		{Name: "Doctor", Stream: "Science", RequiredSkills: []string{"biology"}},
	}}}
	loader := NewLoader(source, cache, false, logger.NewTestLogger(t))
	ctx := context.Background()

	first, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	second, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls, "second load should be served from the snapshot")
	assert.Equal(t, first.Records(), second.Records())
}

func TestLoader_CacheFailureFallsBackToSource(t *testing.T) {
	mr, client := setupRedis(t)
	cache := NewSnapshotCache(client, "snap", time.Minute)
	source := &stubSource{batch: Batch{Records: []models.CareerRecord{
		{Name: "Doctor", Stream: "Science", RequiredSkills: []string{"biology"}},
	}}}
	mr.Close()

	cat, err := NewLoader(source, cache, false, logger.NewTestLogger(t)).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())
	assert.Equal(t, 1, source.calls)
}

// ==========================
// Holder Tests
// ==========================

func TestHolder_ReloadSwapsCatalog(t *testing.T) {
	src := &stubSource{batch: Batch{Records: []models.CareerRecord{
		{Name: "Doctor", Stream: "Science", RequiredSkills: []string{"biology"}},
	}}}
	h := NewHolder(nil, NewLoader(src, nil, false, logger.NewTestLogger(t)))

	before := h.Current()
	assert.Equal(t, 0, before.Len())

	next, err := h.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, next.Len())
	assert.Same(t, next, h.Current())
	assert.Equal(t, 0, before.Len())
}

func TestHolder_ReloadFailureKeepsCurrent(t *testing.T) {
	initial := New([]models.CareerRecord{{Name: "Lawyer", Stream: "Arts", RequiredSkills: []string{"research"}}})
	h := NewHolder(initial, NewLoader(&stubSource{err: stderrors.New("gone")}, nil, false, logger.NewTestLogger(t)))

	_, err := h.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, initial, h.Current())
}

func TestHolder_WithoutLoader(t *testing.T) {
	initial := New(nil)
	h := NewHolder(initial, nil)

	got, err := h.Reload(context.Background())
	require.NoError(t, err)
	assert.Same(t, initial, got)
}

func TestHolder_ReloadBypassesSnapshot(t *testing.T) {
	_, client := setupRedis(t)
	cache := NewSnapshotCache(client, "snap", time.Minute)
	src := &stubSource{batch: Batch{Records: []models.CareerRecord{
		{Name: "Doctor", Stream: "Science", RequiredSkills: []string{"biology"}},
	}}}
	loader := NewLoader(src, cache, false, logger.NewTestLogger(t))
	ctx := context.Background()

	initial, err := loader.Load(ctx)
	require.NoError(t, err)
	h := NewHolder(initial, loader)

	src.batch.Records = append(src.batch.Records,
		models.CareerRecord{Name: "Lawyer", Stream: "Arts", RequiredSkills: []string{"research"}})

	next, err := h.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 2, next.Len())

	cached, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls, "refresh should repopulate the snapshot")
	assert.Equal(t, 2, cached.Len())
}
