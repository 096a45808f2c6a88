package service

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"video-labeling-be/internal/config"
	"video-labeling-be/internal/constant"
	"video-labeling-be/internal/dto"
	"video-labeling-be/internal/pkg/apperrors"
	"video-labeling-be/internal/pkg/logger"
)

type IVideoService interface {
	ListVideos(ctx context.Context, root string) ([]dto.VideoFile, error)
	ValidateVideoFile(path string) bool
	ResolvePath(path string) string
	CheckFile(path string) dto.CheckFileResponse
	SaveUpload(ctx context.Context, file *multipart.FileHeader) (*dto.UploadResponse, error)
}

type videoService struct {
	cfg    config.VideoConfig
	logger logger.ILogger
}

func NewVideoService(cfg config.VideoConfig, logger logger.ILogger) IVideoService {
	return &videoService{cfg: cfg, logger: logger}
}

// ListVideos walks the given path (a single file or a directory tree) and
// returns every playable video it finds. Unknown extensions and zero-byte
// files are skipped.
func (s *videoService) ListVideos(ctx context.Context, root string) ([]dto.VideoFile, error) {
	resolved := s.ResolvePath(root)

	stat, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: path %s", apperrors.ErrNotFound, resolved)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: path %s", apperrors.ErrAccess, resolved)
		}
		return nil, fmt.Errorf("stat %s: %w", resolved, err)
	}

	var files []dto.VideoFile
	if !stat.IsDir() {
		if s.ValidateVideoFile(resolved) {
			files = append(files, dto.VideoFile{
				Name: filepath.Base(resolved),
				Path: resolved,
				Size: stat.Size(),
				Type: "local",
			})
		}
		return files, nil
	}

	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are skipped, not fatal.
			s.logger.Warn("video", "skipping unreadable path", map[string]interface{}{
				"path":  path,
				"error": walkErr.Error(),
			})
			return skipUnreadable(d)
		}
		if d.IsDir() || !s.ValidateVideoFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, dto.VideoFile{
			Name: d.Name(),
			Path: path,
			Size: info.Size(),
			Type: "local",
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", resolved, err)
	}
	return files, nil
}

// skipUnreadable turns a walk error into the narrowest possible skip: a whole
// subtree only for directories, a single entry otherwise. SkipDir on a file
// would drop the rest of its parent directory.
func skipUnreadable(d fs.DirEntry) error {
	if d != nil && d.IsDir() {
		return fs.SkipDir
	}
	return nil
}

// ValidateVideoFile reports whether the path points at a non-empty regular
// file with an allowed video extension. It never errors.
func (s *videoService) ValidateVideoFile(path string) bool {
	stat, err := os.Stat(path)
	if err != nil || !stat.Mode().IsRegular() || stat.Size() == 0 {
		return false
	}
	_, ok := constant.AllowedVideoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ResolvePath resolves a relative path against the process working
// directory, matching how the player UI sends paths.
func (s *videoService) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(cwd, path)
}

func (s *videoService) CheckFile(path string) dto.CheckFileResponse {
	resolved := s.ResolvePath(path)
	stat, err := os.Stat(resolved)
	if err != nil {
		return dto.CheckFileResponse{}
	}
	return dto.CheckFileResponse{
		Exists:  true,
		IsFile:  stat.Mode().IsRegular(),
		IsVideo: s.ValidateVideoFile(resolved),
	}
}

// SaveUpload stores an uploaded video under the configured upload directory,
// enforcing the extension allow-list and the size cap.
func (s *videoService) SaveUpload(ctx context.Context, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := constant.AllowedVideoExtensions[ext]; !ok {
		return nil, fmt.Errorf("%w: invalid file format %q", apperrors.ErrValidation, ext)
	}
	if max := int64(s.cfg.MaxUploadSizeMB) * 1024 * 1024; file.Size > max {
		return nil, fmt.Errorf("%w: file exceeds upload limit of %dMB", apperrors.ErrValidation, s.cfg.MaxUploadSizeMB)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	destPath := filepath.Join(s.cfg.UploadDir, filepath.Base(file.Filename))
	dest, err := os.Create(destPath)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: write upload %s", apperrors.ErrAccess, destPath)
		}
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	s.logger.Info("video", "video uploaded", map[string]interface{}{
		"filename": file.Filename,
		"path":     destPath,
		"size":     file.Size,
	})
	return &dto.UploadResponse{
		Filename: file.Filename,
		Path:     destPath,
	}, nil
}
