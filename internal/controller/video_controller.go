package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"video-labeling-be/internal/dto"
	"video-labeling-be/internal/pkg/apperrors"
	"video-labeling-be/internal/pkg/serverutils"
	"video-labeling-be/internal/service"
)

type IVideoController interface {
	RegisterRoutes(r fiber.Router)
	LoadPath(ctx *fiber.Ctx) error
	GetVideo(ctx *fiber.Ctx) error
	CheckFile(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
}

type videoController struct {
	service service.IVideoService
}

func NewVideoController(service service.IVideoService) IVideoController {
	return &videoController{service: service}
}

func (c *videoController) RegisterRoutes(r fiber.Router) {
	r.Post("/load-path", c.LoadPath)
	r.Get("/video/*", c.GetVideo)
	r.Get("/check-file", c.CheckFile)
	r.Post("/video/upload", c.Upload)
}

func (c *videoController) LoadPath(ctx *fiber.Ctx) error {
	var req dto.LoadPathRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", apperrors.ErrValidation, err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	files, err := c.service.ListVideos(ctx.Context(), req.Path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no video files found in the specified path", apperrors.ErrNotFound)
	}
	return ctx.JSON(dto.LoadPathResponse{Files: files})
}

// GetVideo streams a video file. Fiber's SendFile handles range requests, so
// the player can seek.
func (c *videoController) GetVideo(ctx *fiber.Ctx) error {
	videoPath, err := wildcardPath(ctx)
	if err != nil {
		return err
	}

	resolved := c.service.ResolvePath(videoPath)
	check := c.service.CheckFile(resolved)
	if !check.Exists {
		return fmt.Errorf("%w: video not found", apperrors.ErrNotFound)
	}
	if !check.IsVideo {
		return fmt.Errorf("%w: invalid video file", apperrors.ErrValidation)
	}
	return ctx.SendFile(resolved)
}

func (c *videoController) CheckFile(ctx *fiber.Ctx) error {
	path := ctx.Query("path")
	if path == "" {
		return fmt.Errorf("%w: path query parameter is required", apperrors.ErrValidation)
	}
	return ctx.JSON(c.service.CheckFile(path))
}

func (c *videoController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: video file is required", apperrors.ErrValidation)
	}

	res, err := c.service.SaveUpload(ctx.Context(), fileHeader)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
