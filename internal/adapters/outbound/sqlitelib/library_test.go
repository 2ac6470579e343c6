package sqlitelib_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/storyline/internal/adapters/outbound/sqlitelib"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/ports"
)

func openLibrary(t *testing.T) *sqlitelib.Library {
	t.Helper()
	lib, err := sqlitelib.Open(context.Background(), filepath.Join(t.TempDir(), "lib.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func writeFile(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestIndexAndList(t *testing.T) {
	t.Parallel()

	lib := openLibrary(t)
	ctx := context.Background()
	dir := t.TempDir()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	writeFile(t, filepath.Join(dir, "old.jpg"), base)
	writeFile(t, filepath.Join(dir, "nested", "new.mp4"), base.Add(2*time.Hour))
	writeFile(t, filepath.Join(dir, "mid.png"), base.Add(time.Hour))
	writeFile(t, filepath.Join(dir, "readme.txt"), base.Add(3*time.Hour))

	n, err := lib.Index(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "non-media files are skipped")

	page0, err := lib.ListAssets(ctx, 0, 2, true)
	require.NoError(t, err)
	require.Len(t, page0, 2)
	assert.Contains(t, page0[0].URI, "new.mp4")
	assert.Equal(t, domain.MediaKindVideo, page0[0].Kind)
	assert.Contains(t, page0[1].URI, "mid.png")
	assert.True(t, page0[0].ModifiedAt.Equal(base.Add(2*time.Hour)))

	page1, err := lib.ListAssets(ctx, 1, 2, true)
	require.NoError(t, err)
	require.Len(t, page1, 1)
	assert.Contains(t, page1[0].URI, "old.jpg")

	oldest, err := lib.ListAssets(ctx, 0, 1, false)
	require.NoError(t, err)
	assert.Contains(t, oldest[0].URI, "old.jpg")
}

func TestIndex_IsIdempotent(t *testing.T) {
	t.Parallel()

	lib := openLibrary(t)
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.jpg"), time.Now())

	_, err := lib.Index(ctx, dir)
	require.NoError(t, err)
	_, err = lib.Index(ctx, dir)
	require.NoError(t, err)

	n, err := lib.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRequestPermission(t *testing.T) {
	t.Parallel()

	lib := openLibrary(t)
	ok, err := lib.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClosed(t *testing.T) {
	t.Parallel()

	lib := openLibrary(t)
	require.NoError(t, lib.Close())
	require.NoError(t, lib.Close())

	_, err := lib.ListAssets(context.Background(), 0, 10, true)
	assert.ErrorIs(t, err, ports.ErrLibraryClosed)
	assert.True(t, sqlitelib.IsClosed(err))

	_, err = lib.RequestPermission(context.Background())
	assert.ErrorIs(t, err, ports.ErrLibraryClosed)
}

func TestListAssets_OutOfRange(t *testing.T) {
	t.Parallel()

	lib := openLibrary(t)
	items, err := lib.ListAssets(context.Background(), 3, 10, true)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = lib.ListAssets(context.Background(), -1, 10, true)
	require.NoError(t, err)
	assert.Empty(t, items)
}
