package dto

type VideoFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type LoadPathRequest struct {
	Path string `json:"path" validate:"required"`
}

type LoadPathResponse struct {
	Files []VideoFile `json:"files"`
}

type CheckFileResponse struct {
	Exists  bool `json:"exists"`
	IsFile  bool `json:"is_file"`
	IsVideo bool `json:"is_video"`
}

type UploadResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

type HealthcheckResponse struct {
	Status          string `json:"status"`
	UploadDir       string `json:"upload_dir"`
	UploadDirExists bool   `json:"upload_dir_exists"`
}
