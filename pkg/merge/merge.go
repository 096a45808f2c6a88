// Package merge implements the segment-upsert-by-id policy used when a new
// annotation submission is reconciled with an existing document.
package merge

import (
	"sort"

	"video-labeling-be/internal/model"
)

// Merge produces the document to persist. It is pure: neither input is
// mutated and no validation happens here.
//
// With no existing document the incoming one is taken as-is (segments
// sorted). Otherwise the merged segment set is the union keyed by segment_id,
// an incoming segment always superseding an existing one with the same id,
// sorted ascending. Metadata (info, additional_info) always comes from the
// existing document once one exists on disk.
func Merge(existing, incoming *model.AnnotationDocument) *model.AnnotationDocument {
	if incoming == nil {
		incoming = &model.AnnotationDocument{}
	}
	if existing == nil {
		return &model.AnnotationDocument{
			Info:           incoming.Info,
			Segments:       sortedByID(incoming.Segments),
			AdditionalInfo: cloneInfoMap(incoming.AdditionalInfo),
		}
	}

	byID := make(map[int]model.Segment, len(existing.Segments)+len(incoming.Segments))
	for _, seg := range existing.Segments {
		byID[seg.SegmentID] = seg
	}
	for _, seg := range incoming.Segments {
		byID[seg.SegmentID] = seg
	}

	merged := make([]model.Segment, 0, len(byID))
	for _, seg := range byID {
		merged = append(merged, seg)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].SegmentID < merged[j].SegmentID })

	return &model.AnnotationDocument{
		Info:           existing.Info,
		Segments:       merged,
		AdditionalInfo: cloneInfoMap(existing.AdditionalInfo),
	}
}

func sortedByID(segments []model.Segment) []model.Segment {
	out := make([]model.Segment, len(segments))
	copy(out, segments)
	sort.Slice(out, func(i, j int) bool { return out[i].SegmentID < out[j].SegmentID })
	return out
}

func cloneInfoMap(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
