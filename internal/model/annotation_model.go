package model

// VideoInfo is the semantic metadata block of an annotation document.
// Field order matters for the sidecar file layout, so keep it stable.
type VideoInfo struct {
	Filename    string  `json:"filename"`
	Format      string  `json:"format"`
	Size        int64   `json:"size"`
	WidthHeight [2]int  `json:"width_height"`
	Environment int     `json:"environment"`
	Device      string  `json:"device"`
	FrameRate   float64 `json:"frame_rate"`
	Playtime    float64 `json:"playtime"`
	Date        string  `json:"date"`
}

// Segment is one labeled temporal span of a video. SegmentID is the merge key
// and must be unique within a document.
type Segment struct {
	SegmentID  int      `json:"segment_id"`
	StartFrame int      `json:"start_frame"`
	EndFrame   int      `json:"end_frame"`
	StartTime  *float64 `json:"start_time,omitempty"`
	EndTime    *float64 `json:"end_time,omitempty"`
	Duration   float64  `json:"duration"`
	Action     int      `json:"action"`
	Caption    string   `json:"caption"`
	Age        int      `json:"age"`
	Gender     int      `json:"gender"`
	Disability int      `json:"disability"`
	Keyframe   *int     `json:"keyframe,omitempty"`
}

// AnnotationDocument is the unit of persistence, one per video. All three
// sections must be present for the document to be valid.
type AnnotationDocument struct {
	Info           VideoInfo              `json:"info"`
	Segments       []Segment              `json:"segments"`
	AdditionalInfo map[string]interface{} `json:"additional_info"`
}
