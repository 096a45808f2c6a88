package constant

// Defaults used when synthesizing a fresh annotation document. The capture
// rigs this platform labels for are fixed-format kiosk recordings.
const (
	DefaultFormat          = "mp4"
	DefaultDevice          = "KIOSK"
	DefaultFrameRate       = 15
	DefaultEnvironment     = 1
	DefaultInteractionType = "Touchscreen"

	DateLayout = "2006-01-02"
)

// AllowedVideoExtensions is the upload/listing allow-list (lowercase).
var AllowedVideoExtensions = map[string]struct{}{
	".mp4": {},
	".avi": {},
	".mov": {},
	".mkv": {},
}
