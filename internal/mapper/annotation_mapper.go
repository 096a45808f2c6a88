package mapper

import (
	"video-labeling-be/internal/dto"
	"video-labeling-be/internal/model"
)

// ToAnnotationModel converts a wire document into its persisted form. Nil
// pointers collapse to zero values, so callers that need strict presence must
// validate the dto first (staged documents are allowed to be partial).
func ToAnnotationModel(doc *dto.AnnotationDocument) *model.AnnotationDocument {
	if doc == nil {
		return &model.AnnotationDocument{}
	}

	out := &model.AnnotationDocument{
		AdditionalInfo: doc.AdditionalInfo,
	}
	if doc.Info != nil {
		out.Info = ToVideoInfoModel(doc.Info)
	}
	if doc.Segments != nil {
		out.Segments = make([]model.Segment, 0, len(doc.Segments))
		for _, seg := range doc.Segments {
			out.Segments = append(out.Segments, ToSegmentModel(&seg))
		}
	}
	return out
}

func ToVideoInfoModel(info *dto.VideoInfo) model.VideoInfo {
	out := model.VideoInfo{
		Filename:    derefString(info.Filename),
		Format:      derefString(info.Format),
		Size:        derefInt64(info.Size),
		Environment: derefInt(info.Environment),
		Device:      derefString(info.Device),
		FrameRate:   derefFloat(info.FrameRate),
		Playtime:    derefFloat(info.Playtime),
		Date:        derefString(info.Date),
	}
	if len(info.WidthHeight) == 2 {
		out.WidthHeight = [2]int{info.WidthHeight[0], info.WidthHeight[1]}
	}
	return out
}

func ToSegmentModel(seg *dto.Segment) model.Segment {
	return model.Segment{
		SegmentID:  derefInt(seg.SegmentID),
		StartFrame: derefInt(seg.StartFrame),
		EndFrame:   derefInt(seg.EndFrame),
		StartTime:  seg.StartTime,
		EndTime:    seg.EndTime,
		Duration:   derefFloat(seg.Duration),
		Action:     derefInt(seg.Action),
		Caption:    derefString(seg.Caption),
		Age:        derefInt(seg.Age),
		Gender:     derefInt(seg.Gender),
		Disability: derefInt(seg.Disability),
		Keyframe:   seg.Keyframe,
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
