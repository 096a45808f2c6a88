package contract

import "video-labeling-be/internal/model"

// IStagingRepository holds in-progress annotation documents that have not
// been finalized to disk yet, keyed by an opaque video identifier. Entries
// expire after a configured idle period; abandoned staging sessions do not
// accumulate forever.
type IStagingRepository interface {
	// Stage inserts or replaces the staged document unconditionally.
	Stage(id string, doc *model.AnnotationDocument)

	// Get returns the staged document if present.
	Get(id string) (*model.AnnotationDocument, bool)

	// ModifySegment replaces the segment at the given position, preserving
	// all other segments and metadata. Fails with apperrors.ErrNotFound when
	// the id is not staged or the index is out of range.
	ModifySegment(id string, index int, seg model.Segment) error

	// Remove drops the staged entry if present.
	Remove(id string)
}
