package implementation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"video-labeling-be/internal/dto"
	"video-labeling-be/internal/model"
	"video-labeling-be/internal/pkg/apperrors"
	"video-labeling-be/internal/repository/contract"
)

const backupSuffix = ".bak"

type sidecarRepository struct{}

func NewSidecarRepository() contract.ISidecarRepository {
	return &sidecarRepository{}
}

func (r *sidecarRepository) SidecarPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".json"
}

func (r *sidecarRepository) Exists(videoPath string) bool {
	info, err := os.Stat(r.SidecarPath(videoPath))
	return err == nil && info.Mode().IsRegular()
}

func (r *sidecarRepository) Read(videoPath string) (*dto.AnnotationDocument, error) {
	sidecar := r.SidecarPath(videoPath)
	data, err := os.ReadFile(sidecar)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrAccess, sidecar, err)
		}
		return nil, fmt.Errorf("read sidecar %s: %w", sidecar, err)
	}

	var doc dto.AnnotationDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse sidecar %s: %v", apperrors.ErrDecode, sidecar, err)
	}
	return &doc, nil
}

// Write serializes with two-space indentation and without HTML escaping so
// non-ASCII captions land in the file literally. The document goes to a
// temporary sibling first and is renamed into place, so a client disconnect
// mid-write never leaves a half-written sidecar.
func (r *sidecarRepository) Write(videoPath string, doc *model.AnnotationDocument) error {
	sidecar := r.SidecarPath(videoPath)
	if err := os.MkdirAll(filepath.Dir(sidecar), 0o755); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: create directory for %s: %v", apperrors.ErrAccess, sidecar, err)
		}
		return fmt.Errorf("create directory for %s: %w", sidecar, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode sidecar %s: %w", sidecar, err)
	}

	tmp := sidecar + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: write %s: %v", apperrors.ErrAccess, tmp, err)
		}
		return fmt.Errorf("write sidecar %s: %w", sidecar, err)
	}
	if err := os.Rename(tmp, sidecar); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit sidecar %s: %w", sidecar, err)
	}
	return nil
}

func (r *sidecarRepository) Backup(videoPath string) error {
	sidecar := r.SidecarPath(videoPath)
	data, err := os.ReadFile(sidecar)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w: backup %s: %v", apperrors.ErrAccess, sidecar, err)
		}
		return fmt.Errorf("backup sidecar %s: %w", sidecar, err)
	}
	if err := os.WriteFile(sidecar+backupSuffix, data, 0o644); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: backup %s: %v", apperrors.ErrAccess, sidecar, err)
		}
		return fmt.Errorf("write backup for %s: %w", sidecar, err)
	}
	return nil
}

func (r *sidecarRepository) Delete(videoPath string) error {
	if err := r.Backup(videoPath); err != nil {
		return err
	}
	sidecar := r.SidecarPath(videoPath)
	if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: delete %s: %v", apperrors.ErrAccess, sidecar, err)
		}
		return fmt.Errorf("delete sidecar %s: %w", sidecar, err)
	}
	return nil
}
