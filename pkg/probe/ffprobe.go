// Package probe extracts container metadata (dimensions, frame count, frame
// rate) from a video file by shelling out to ffprobe. Probing is strictly
// best-effort: document creation never blocks on a probe failure.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type Result struct {
	Width      int
	Height     int
	FrameCount int
	FPS        float64
	Duration   float64
}

type Prober interface {
	Probe(ctx context.Context, videoPath string) (Result, error)
}

type FFProbe struct {
	binary string
}

func NewFFProbe(binary string) *FFProbe {
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFProbe{binary: binary}
}

func (p *FFProbe) Probe(ctx context.Context, videoPath string) (Result, error) {
	cmd := exec.CommandContext(
		ctx,
		p.binary,
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		videoPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe %s: %w", videoPath, err)
	}
	return parseOutput(out)
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		NbFrames     string `json:"nb_frames"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseOutput(data []byte) (Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return Result{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	var res Result
	for _, stream := range raw.Streams {
		if stream.CodecType != "video" {
			continue
		}
		res.Width = stream.Width
		res.Height = stream.Height
		if n, err := strconv.Atoi(stream.NbFrames); err == nil {
			res.FrameCount = n
		}
		res.FPS = parseRational(stream.AvgFrameRate)
		break
	}
	if d, err := strconv.ParseFloat(raw.Format.Duration, 64); err == nil {
		res.Duration = d
	}
	if res.Duration == 0 && res.FPS > 0 {
		res.Duration = float64(res.FrameCount) / res.FPS
	}
	return res, nil
}

// parseRational handles ffprobe's "30000/1001" style frame rates.
func parseRational(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	if !found {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
