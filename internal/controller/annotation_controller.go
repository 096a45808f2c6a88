package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"video-labeling-be/internal/dto"
	"video-labeling-be/internal/pkg/apperrors"
	"video-labeling-be/internal/pkg/serverutils"
	"video-labeling-be/internal/service"
)

type IAnnotationController interface {
	RegisterRoutes(r fiber.Router)
	CheckAnnotation(ctx *fiber.Ctx) error
	GetAnnotations(ctx *fiber.Ctx) error
	SaveAnnotation(ctx *fiber.Ctx) error
	StageAnnotation(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
	ModifySegment(ctx *fiber.Ctx) error
	DeleteAnnotation(ctx *fiber.Ctx) error
}

type annotationController struct {
	service service.IAnnotationService
}

func NewAnnotationController(service service.IAnnotationService) IAnnotationController {
	return &annotationController{service: service}
}

func (c *annotationController) RegisterRoutes(r fiber.Router) {
	r.Get("/check-annotation", c.CheckAnnotation)
	r.Get("/annotations/*", c.GetAnnotations)
	r.Post("/save-annotation", c.SaveAnnotation)
	r.Post("/annotations/:id", c.StageAnnotation)
	r.Post("/complete/:id", c.Complete)
	r.Post("/modify-segment/:id", c.ModifySegment)
	r.Delete("/annotations/*", c.DeleteAnnotation)
}

func (c *annotationController) CheckAnnotation(ctx *fiber.Ctx) error {
	path := ctx.Query("path")
	if path == "" {
		return fmt.Errorf("%w: path query parameter is required", apperrors.ErrValidation)
	}
	return ctx.JSON(dto.CheckAnnotationResponse{
		Exists: c.service.CheckExists(ctx.Context(), path),
	})
}

func (c *annotationController) GetAnnotations(ctx *fiber.Ctx) error {
	videoPath, err := wildcardPath(ctx)
	if err != nil {
		return err
	}

	doc, err := c.service.Fetch(ctx.Context(), videoPath)
	if err != nil {
		return err
	}
	return ctx.JSON(doc)
}

// SaveAnnotation accepts a multipart upload of the full annotation document
// plus the video path it belongs to, and merges it into the sidecar.
func (c *annotationController) SaveAnnotation(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: annotation file is required", apperrors.ErrValidation)
	}
	path := ctx.FormValue("path")

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("open uploaded annotation: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read uploaded annotation: %w", err)
	}

	var doc dto.AnnotationDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: invalid JSON format: %v", apperrors.ErrValidation, err)
	}

	sidecarPath, err := c.service.Save(ctx.Context(), path, &doc)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.SaveAnnotationResponse{
		Status:  "success",
		Message: "Annotations saved successfully",
		Path:    sidecarPath,
	})
}

func (c *annotationController) StageAnnotation(ctx *fiber.Ctx) error {
	id, err := decodedParam(ctx, "id")
	if err != nil {
		return err
	}

	var doc dto.AnnotationDocument
	if err := ctx.BodyParser(&doc); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", apperrors.ErrValidation, err)
	}

	if err := c.service.Stage(ctx.Context(), id, &doc); err != nil {
		return err
	}
	return ctx.JSON(dto.StatusResponse{Status: "success"})
}

func (c *annotationController) Complete(ctx *fiber.Ctx) error {
	id, err := decodedParam(ctx, "id")
	if err != nil {
		return err
	}
	isModify := false
	if raw := ctx.Query("is_modify"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: invalid is_modify value %q", apperrors.ErrValidation, raw)
		}
		isModify = v
	}

	file, err := c.service.Finalize(ctx.Context(), id, isModify)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.CompleteResponse{
		Status:  "success",
		Message: "Annotations completed successfully",
		File:    file,
	})
}

func (c *annotationController) ModifySegment(ctx *fiber.Ctx) error {
	id, err := decodedParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.ModifySegmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", apperrors.ErrValidation, err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ModifySegment(ctx.Context(), id, *req.Index, &req.Data); err != nil {
		return err
	}
	return ctx.JSON(dto.StatusResponse{Status: "success"})
}

func (c *annotationController) DeleteAnnotation(ctx *fiber.Ctx) error {
	videoPath, err := wildcardPath(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), videoPath); err != nil {
		return err
	}
	return ctx.JSON(dto.StatusResponse{Status: "success"})
}

func wildcardPath(ctx *fiber.Ctx) (string, error) {
	decoded, err := url.PathUnescape(ctx.Params("*"))
	if err != nil || decoded == "" {
		return "", fmt.Errorf("%w: invalid video path", apperrors.ErrValidation)
	}
	// ctx.Params is backed by a buffer fiber reuses after the handler
	// returns; copy before the value escapes the request (staging cache).
	return utils.CopyString(decoded), nil
}

func decodedParam(ctx *fiber.Ctx, name string) (string, error) {
	decoded, err := url.PathUnescape(ctx.Params(name))
	if err != nil || decoded == "" {
		return "", fmt.Errorf("%w: invalid video identifier", apperrors.ErrValidation)
	}
	// See wildcardPath: the param string must not alias fiber's buffer.
	return utils.CopyString(decoded), nil
}
