package service

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-labeling-be/internal/config"
	"video-labeling-be/internal/pkg/apperrors"
)

func newVideoFixture(t *testing.T) (IVideoService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewVideoService(config.VideoConfig{
		UploadDir:       filepath.Join(dir, "uploads"),
		MaxUploadSizeMB: 1,
	}, nopLogger{})
	return svc, dir
}

func writeVideo(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("fake video bytes"), 0o644))
}

func TestListVideos(t *testing.T) {
	svc, dir := newVideoFixture(t)
	ctx := context.Background()

	writeVideo(t, filepath.Join(dir, "a.mp4"))
	writeVideo(t, filepath.Join(dir, "nested", "b.avi"))
	writeVideo(t, filepath.Join(dir, "notes.txt"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.mp4"), nil, 0o644))

	files, err := svc.ListVideos(ctx, dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	names := []string{files[0].Name, files[1].Name}
	assert.Contains(t, names, "a.mp4")
	assert.Contains(t, names, "b.avi")
	for _, f := range files {
		assert.Equal(t, "local", f.Type)
		assert.Equal(t, int64(len("fake video bytes")), f.Size)
	}
}

func TestListVideosSingleFile(t *testing.T) {
	svc, dir := newVideoFixture(t)
	video := filepath.Join(dir, "solo.mov")
	writeVideo(t, video)

	files, err := svc.ListVideos(context.Background(), video)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "solo.mov", files[0].Name)
}

func TestListVideosMissingPath(t *testing.T) {
	svc, dir := newVideoFixture(t)

	_, err := svc.ListVideos(context.Background(), filepath.Join(dir, "nowhere"))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

type fakeDirEntry struct {
	dir bool
}

func (e fakeDirEntry) Name() string               { return "entry" }
func (e fakeDirEntry) IsDir() bool                { return e.dir }
func (e fakeDirEntry) Type() fs.FileMode          { return 0 }
func (e fakeDirEntry) Info() (fs.FileInfo, error) { return nil, nil }

func TestSkipUnreadable(t *testing.T) {
	assert.Equal(t, fs.SkipDir, skipUnreadable(fakeDirEntry{dir: true}))
	// A failed file entry drops only itself, never its siblings.
	assert.NoError(t, skipUnreadable(fakeDirEntry{dir: false}))
	assert.NoError(t, skipUnreadable(nil))
}

func TestValidateVideoFile(t *testing.T) {
	svc, dir := newVideoFixture(t)

	video := filepath.Join(dir, "Clip.MP4")
	writeVideo(t, video)
	text := filepath.Join(dir, "readme.txt")
	writeVideo(t, text)
	empty := filepath.Join(dir, "zero.mp4")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	assert.True(t, svc.ValidateVideoFile(video), "extension match is case-insensitive")
	assert.False(t, svc.ValidateVideoFile(text))
	assert.False(t, svc.ValidateVideoFile(empty), "zero-byte files are not playable")
	assert.False(t, svc.ValidateVideoFile(dir), "directories are not videos")
	assert.False(t, svc.ValidateVideoFile(filepath.Join(dir, "missing.mp4")))
}

func TestCheckFile(t *testing.T) {
	svc, dir := newVideoFixture(t)
	video := filepath.Join(dir, "clip.mp4")
	writeVideo(t, video)

	res := svc.CheckFile(video)
	assert.True(t, res.Exists)
	assert.True(t, res.IsFile)
	assert.True(t, res.IsVideo)

	res = svc.CheckFile(filepath.Join(dir, "missing.mp4"))
	assert.False(t, res.Exists)

	res = svc.CheckFile(dir)
	assert.True(t, res.Exists)
	assert.False(t, res.IsFile)
	assert.False(t, res.IsVideo)
}

func TestResolvePath(t *testing.T) {
	svc, _ := newVideoFixture(t)

	abs := string(filepath.Separator) + filepath.Join("data", "clip.mp4")
	assert.Equal(t, abs, svc.ResolvePath(abs))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "clip.mp4"), svc.ResolvePath("clip.mp4"))
}
