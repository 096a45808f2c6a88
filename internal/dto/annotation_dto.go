package dto

// AnnotationDocument is the wire and sidecar-file shape of a document.
// Required fields are pointers so that absence in the incoming JSON is
// distinguishable from a zero value; the schema validator relies on that.
type AnnotationDocument struct {
	Info           *VideoInfo             `json:"info"`
	Segments       []Segment              `json:"segments"`
	AdditionalInfo map[string]interface{} `json:"additional_info"`
}

type VideoInfo struct {
	Filename    *string  `json:"filename" validate:"required"`
	Format      *string  `json:"format" validate:"required"`
	Size        *int64   `json:"size" validate:"required"`
	WidthHeight []int    `json:"width_height" validate:"required,len=2"`
	Environment *int     `json:"environment" validate:"required,min=1,max=10"`
	Device      *string  `json:"device"`
	FrameRate   *float64 `json:"frame_rate"`
	Playtime    *float64 `json:"playtime"`
	Date        *string  `json:"date"`
}

type Segment struct {
	SegmentID  *int     `json:"segment_id" validate:"required"`
	StartFrame *int     `json:"start_frame" validate:"required"`
	EndFrame   *int     `json:"end_frame" validate:"required"`
	StartTime  *float64 `json:"start_time,omitempty"`
	EndTime    *float64 `json:"end_time,omitempty"`
	Duration   *float64 `json:"duration" validate:"required,gt=0"`
	Action     *int     `json:"action" validate:"required,min=1,max=4"`
	Caption    *string  `json:"caption" validate:"required"`
	Age        *int     `json:"age" validate:"required,min=1,max=3"`
	Gender     *int     `json:"gender" validate:"required,min=1,max=2"`
	Disability *int     `json:"disability" validate:"required,min=1,max=2"`
	Keyframe   *int     `json:"keyframe,omitempty"`
}

type ModifySegmentRequest struct {
	Index *int    `json:"index" validate:"required,min=0"`
	Data  Segment `json:"data"`
}

type CheckAnnotationResponse struct {
	Exists bool `json:"exists"`
}

type SaveAnnotationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

type CompleteResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	File    string `json:"file"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
