package contract

import (
	"video-labeling-be/internal/dto"
	"video-labeling-be/internal/model"
)

// ISidecarRepository owns all on-disk annotation state. A sidecar is the JSON
// file co-located with a video, sharing its base name with the extension
// replaced by .json; a .json.bak sibling holds the single most recent prior
// version.
type ISidecarRepository interface {
	// SidecarPath maps a video file path to its sidecar path.
	SidecarPath(videoPath string) string

	// Exists reports whether the sidecar is present. It never fails; any
	// access error reads as false.
	Exists(videoPath string) bool

	// Read returns the decoded sidecar, or (nil, nil) when none exists. A
	// present but unparseable file fails with an apperrors.ErrDecode wrap;
	// repair policy belongs to the caller.
	Read(videoPath string) (*dto.AnnotationDocument, error)

	// Write serializes the document over the sidecar, creating parent
	// directories as needed. The write is all-or-nothing.
	Write(videoPath string, doc *model.AnnotationDocument) error

	// Backup copies the sidecar byte-for-byte to its .json.bak sibling,
	// overwriting any previous backup. No-op when the sidecar is absent.
	// Must be called before any destructive Write or Delete over an
	// existing sidecar.
	Backup(videoPath string) error

	// Delete backs up then removes the sidecar. Success when absent.
	Delete(videoPath string) error
}
