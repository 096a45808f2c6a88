package main

import (
	"context"
	"log"

	"video-labeling-be/internal/bootstrap"
	"video-labeling-be/internal/config"
	"video-labeling-be/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Audit Service...")
		if err := container.AuditService.Consume(context.Background()); err != nil {
			log.Printf("Background Audit Error: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
