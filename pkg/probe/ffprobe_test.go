package probe

import (
	"math"
	"testing"
)

func TestParseOutput(t *testing.T) {
	raw := []byte(`{
		"streams": [
			{"codec_type": "audio", "avg_frame_rate": "0/0"},
			{
				"codec_type": "video",
				"width": 1920,
				"height": 1080,
				"nb_frames": "450",
				"avg_frame_rate": "30000/1001"
			}
		],
		"format": {"duration": "15.015000"}
	}`)

	res, err := parseOutput(raw)
	if err != nil {
		t.Fatalf("parseOutput() error = %v", err)
	}
	if res.Width != 1920 || res.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1920x1080", res.Width, res.Height)
	}
	if res.FrameCount != 450 {
		t.Errorf("frame count = %d, want 450", res.FrameCount)
	}
	if math.Abs(res.FPS-29.97) > 0.01 {
		t.Errorf("fps = %f, want ~29.97", res.FPS)
	}
	if math.Abs(res.Duration-15.015) > 0.001 {
		t.Errorf("duration = %f, want 15.015", res.Duration)
	}
}

func TestParseOutputDurationFallback(t *testing.T) {
	// No container duration: derived from frame count and rate.
	raw := []byte(`{
		"streams": [
			{"codec_type": "video", "width": 640, "height": 480, "nb_frames": "150", "avg_frame_rate": "15/1"}
		],
		"format": {}
	}`)

	res, err := parseOutput(raw)
	if err != nil {
		t.Fatalf("parseOutput() error = %v", err)
	}
	if math.Abs(res.Duration-10.0) > 0.001 {
		t.Errorf("duration = %f, want 10.0", res.Duration)
	}
}

func TestParseOutputRejectsGarbage(t *testing.T) {
	if _, err := parseOutput([]byte("not json")); err == nil {
		t.Fatal("parseOutput() = nil error, want parse failure")
	}
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30000/1001", 29.97002997},
		{"15/1", 15},
		{"25", 25},
		{"0/0", 0},
		{"", 0},
		{"abc/def", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseRational(tt.in); math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("parseRational(%q) = %f, want %f", tt.in, got, tt.want)
			}
		})
	}
}
