package bootstrap

import (
	"video-labeling-be/internal/config"
	"video-labeling-be/internal/controller"
	"video-labeling-be/internal/pkg/logger"
	"video-labeling-be/internal/repository/implementation"
	"video-labeling-be/internal/repository/memory"
	"video-labeling-be/internal/service"
	"video-labeling-be/pkg/events"
	"video-labeling-be/pkg/probe"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	AnnotationController controller.IAnnotationController
	VideoController      controller.IVideoController

	// Background Services (Exposed for main.go to run)
	AuditService service.IAuditService

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisher := events.NewPublisher(pubSub)

	// 3. Repositories
	sidecarRepo := implementation.NewSidecarRepository()
	stagingRepo := memory.NewStagingRepository(cfg.Annotation.StagingTTL, cfg.Annotation.StagingPurge)

	// 4. Services
	prober := probe.NewFFProbe(cfg.Annotation.FFProbePath)
	annotationService := service.NewAnnotationService(
		sidecarRepo,
		stagingRepo,
		prober,
		publisher,
		sysLogger,
		cfg.Annotation,
	)
	videoService := service.NewVideoService(cfg.Video, sysLogger)
	auditService := service.NewAuditService(pubSub, sysLogger)

	// 5. Controllers
	return &Container{
		AnnotationController: controller.NewAnnotationController(annotationService),
		VideoController:      controller.NewVideoController(videoService),
		AuditService:         auditService,
		Logger:               sysLogger,
	}
}
