package memory

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"video-labeling-be/internal/model"
	"video-labeling-be/internal/pkg/apperrors"
	"video-labeling-be/internal/repository/contract"
)

// StagingRepository keeps not-yet-finalized annotation documents in memory.
// go-cache serializes access to the map itself; individual entries are not
// additionally locked, so concurrent edits of the same id race in the usual
// last-write-wins sense.
type StagingRepository struct {
	cache *cache.Cache
}

// NewStagingRepository creates the staging store. Entries idle longer than
// ttl are purged every purgeInterval, so abandoned sessions expire instead of
// leaking.
func NewStagingRepository(ttl, purgeInterval time.Duration) contract.IStagingRepository {
	return &StagingRepository{
		cache: cache.New(ttl, purgeInterval),
	}
}

func (r *StagingRepository) Stage(id string, doc *model.AnnotationDocument) {
	r.cache.Set(id, doc, cache.DefaultExpiration)
}

func (r *StagingRepository) Get(id string) (*model.AnnotationDocument, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*model.AnnotationDocument), true
	}
	return nil, false
}

func (r *StagingRepository) ModifySegment(id string, index int, seg model.Segment) error {
	doc, found := r.Get(id)
	if !found {
		return fmt.Errorf("%w: no staged annotations for %q", apperrors.ErrNotFound, id)
	}
	if index < 0 || index >= len(doc.Segments) {
		return fmt.Errorf("%w: segment index %d out of range", apperrors.ErrNotFound, index)
	}
	doc.Segments[index] = seg
	// Re-set to refresh the idle expiration.
	r.cache.Set(id, doc, cache.DefaultExpiration)
	return nil
}

func (r *StagingRepository) Remove(id string) {
	r.cache.Delete(id)
}
