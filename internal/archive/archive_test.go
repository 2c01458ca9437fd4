package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/orgball2608/deface/pkg/config"
	"github.com/orgball2608/deface/pkg/errors"
	"github.com/orgball2608/deface/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newLoader(concurrency int) *Loader {
	cfg := &config.Config{}
	cfg.Loader.Concurrency = concurrency
	return New(Opts{Config: cfg, Logger: logger.New(logger.Opts{Output: io.Discard})})
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadKeepsFileOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i, content := range []string{
		`[{"timestamp": 1}, {"timestamp": 2}]`,
		`{"status_updates": [{"timestamp": 3}, {"timestamp": "x"}, {"timestamp": 4}]}`,
		`[]`,
		`[{"timestamp": 5}]`,
	} {
		files = append(files, write(t, dir, "your_posts_"+string(rune('1'+i))+".json", content))
	}

	batches, err := newLoader(2).Load(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, batches, 4)

	for i, batch := range batches {
		assert.Equal(t, files[i], batch.File)
	}
	assert.Equal(t, []int{2, 3, 0, 1}, []int{batches[0].Raw, batches[1].Raw, batches[2].Raw, batches[3].Raw})
	assert.Len(t, batches[1].Posts, 2)
	require.Len(t, batches[1].Errors, 1)
	assert.True(t, errors.IsValidation(batches[1].Errors[0]))
	assert.NoError(t, batches[1].Err)
	assert.Equal(t, int64(5), batches[3].Posts[0].Timestamp)
}

func TestLoadReportsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	broken := write(t, dir, "broken.json", `[{"timestamp": 1}`)
	missing := filepath.Join(dir, "missing.json")

	batches, err := newLoader(1).Load(context.Background(), []string{broken, missing})
	require.NoError(t, err)
	require.Len(t, batches, 2)

	require.Error(t, batches[0].Err)
	assert.True(t, errors.IsValidation(batches[0].Err))
	assert.Contains(t, batches[0].Err.Error(), "is not valid JSON")
	assert.Empty(t, batches[0].Errors)
	assert.ErrorIs(t, batches[1].Err, os.ErrNotExist)
	assert.Zero(t, batches[1].Raw)
}

func TestLoadHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newLoader(1).Load(ctx, []string{"a.json"})
	assert.ErrorIs(t, err, context.Canceled)
}
