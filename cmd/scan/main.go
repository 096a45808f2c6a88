package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"

	"video-labeling-be/internal/config"
	"video-labeling-be/internal/pkg/logger"
	"video-labeling-be/internal/repository/implementation"
	"video-labeling-be/internal/service"
)

// scan walks a video directory and reports annotation coverage: which videos
// already have a sidecar and which are still unlabeled.
func main() {
	root := flag.String("dir", ".", "directory (or single video file) to scan")
	flag.Parse()

	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	videoService := service.NewVideoService(cfg.Video, sysLogger)
	sidecarRepo := implementation.NewSidecarRepository()

	color.Cyan("🔍 Scanning %s for videos\n", *root)

	files, err := videoService.ListVideos(context.Background(), *root)
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}
	if len(files) == 0 {
		color.Yellow("No video files found")
		os.Exit(0)
	}

	annotated := 0
	for _, f := range files {
		if sidecarRepo.Exists(f.Path) {
			annotated++
			color.Green("  [labeled]   %s", f.Path)
		} else {
			color.Red("  [unlabeled] %s", f.Path)
		}
	}

	fmt.Println()
	color.Cyan("%d/%d videos annotated", annotated, len(files))
}
