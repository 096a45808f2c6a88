package events

import "time"

const TopicAnnotationEvents = "annotation.events"

const (
	TypeAnnotationSaved     = "annotation.saved"
	TypeAnnotationFinalized = "annotation.finalized"
	TypeAnnotationDeleted   = "annotation.deleted"
)

// AnnotationEvent records one mutation of a video's annotation state, for the
// audit trail consumer.
type AnnotationEvent struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	VideoPath    string    `json:"video_path"`
	SegmentCount int       `json:"segment_count"`
	OccurredAt   time.Time `json:"occurred_at"`
}
