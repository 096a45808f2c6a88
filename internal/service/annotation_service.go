package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"video-labeling-be/internal/config"
	"video-labeling-be/internal/constant"
	"video-labeling-be/internal/dto"
	"video-labeling-be/internal/mapper"
	"video-labeling-be/internal/model"
	"video-labeling-be/internal/pkg/apperrors"
	"video-labeling-be/internal/pkg/logger"
	"video-labeling-be/internal/repository/contract"
	"video-labeling-be/pkg/events"
	"video-labeling-be/pkg/merge"
	"video-labeling-be/pkg/probe"
	"video-labeling-be/pkg/schema"
)

type IAnnotationService interface {
	CheckExists(ctx context.Context, videoPath string) bool
	Fetch(ctx context.Context, id string) (*model.AnnotationDocument, error)
	Save(ctx context.Context, videoPath string, incoming *dto.AnnotationDocument) (string, error)
	Stage(ctx context.Context, id string, doc *dto.AnnotationDocument) error
	ModifySegment(ctx context.Context, id string, index int, seg *dto.Segment) error
	Finalize(ctx context.Context, id string, isModify bool) (string, error)
	Delete(ctx context.Context, id string) error
}

type annotationService struct {
	sidecar   contract.ISidecarRepository
	staging   contract.IStagingRepository
	prober    probe.Prober
	publisher events.Publisher
	logger    logger.ILogger
	cfg       config.AnnotationConfig
}

func NewAnnotationService(
	sidecar contract.ISidecarRepository,
	staging contract.IStagingRepository,
	prober probe.Prober,
	publisher events.Publisher,
	logger logger.ILogger,
	cfg config.AnnotationConfig,
) IAnnotationService {
	return &annotationService{
		sidecar:   sidecar,
		staging:   staging,
		prober:    prober,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

func (s *annotationService) CheckExists(ctx context.Context, videoPath string) bool {
	return s.sidecar.Exists(videoPath)
}

// Fetch is the lenient read path: staging cache first, disk second, and a
// freshly synthesized empty document when the sidecar is missing, corrupt, or
// schema-invalid. The repair never touches the file on disk.
func (s *annotationService) Fetch(ctx context.Context, id string) (*model.AnnotationDocument, error) {
	if doc, ok := s.staging.Get(id); ok {
		return doc, nil
	}

	docDTO, err := s.sidecar.Read(id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrDecode) {
			return nil, err
		}
		s.logger.Warn("annotation", "unreadable sidecar, resynthesizing empty document", map[string]interface{}{
			"video_path": id,
			"error":      err.Error(),
		})
		return s.resynthesize(id), nil
	}
	if docDTO == nil {
		return s.resynthesize(id), nil
	}
	if verr := schema.Validate(docDTO); verr != nil {
		s.logger.Warn("annotation", "schema-invalid sidecar, resynthesizing empty document", map[string]interface{}{
			"video_path": id,
			"error":      verr.Error(),
		})
		return s.resynthesize(id), nil
	}

	doc := mapper.ToAnnotationModel(docDTO)
	s.staging.Stage(id, doc)
	return doc, nil
}

// Save merges a full incoming document into whatever is on disk and persists
// the result. It either fully succeeds (document replaced, backup retained)
// or fully fails with the original sidecar untouched.
func (s *annotationService) Save(ctx context.Context, videoPath string, incoming *dto.AnnotationDocument) (string, error) {
	if videoPath == "" || strings.HasPrefix(videoPath, "blob:") {
		return "", fmt.Errorf("%w: invalid file path", apperrors.ErrValidation)
	}
	if err := schema.Validate(incoming); err != nil {
		return "", err
	}

	var existing *model.AnnotationDocument
	backedUp := false

	existingDTO, err := s.sidecar.Read(videoPath)
	switch {
	case err != nil && errors.Is(err, apperrors.ErrDecode):
		// The original cannot be parsed but must not be lost: back it up
		// before the overwrite replaces it.
		s.logger.Warn("annotation", "corrupt sidecar backed up before overwrite", map[string]interface{}{
			"video_path": videoPath,
			"error":      err.Error(),
		})
		if berr := s.sidecar.Backup(videoPath); berr != nil {
			return "", berr
		}
		backedUp = true
	case err != nil:
		return "", err
	case existingDTO != nil:
		if verr := schema.Validate(existingDTO); verr != nil {
			s.logger.Warn("annotation", "schema-invalid sidecar backed up before overwrite", map[string]interface{}{
				"video_path": videoPath,
				"error":      verr.Error(),
			})
			if berr := s.sidecar.Backup(videoPath); berr != nil {
				return "", berr
			}
			backedUp = true
		} else {
			existing = mapper.ToAnnotationModel(existingDTO)
		}
	}

	merged := merge.Merge(existing, mapper.ToAnnotationModel(incoming))
	if existing == nil && s.cfg.ProbeOnCreate {
		merged.Info = s.synthesizeInfo(ctx, videoPath)
		if merged.AdditionalInfo == nil {
			merged.AdditionalInfo = defaultAdditionalInfo()
		}
	}

	if err := schema.ValidateSegments(merged.Segments); err != nil {
		return "", err
	}

	if !backedUp && s.sidecar.Exists(videoPath) {
		if err := s.sidecar.Backup(videoPath); err != nil {
			return "", err
		}
	}
	if err := s.sidecar.Write(videoPath, merged); err != nil {
		return "", err
	}

	s.publish(events.TypeAnnotationSaved, videoPath, len(merged.Segments))
	return s.sidecar.SidecarPath(videoPath), nil
}

// Stage caches a document without validation: staged documents are allowed
// to be incomplete until finalized.
func (s *annotationService) Stage(ctx context.Context, id string, doc *dto.AnnotationDocument) error {
	if id == "" {
		return fmt.Errorf("%w: invalid video identifier", apperrors.ErrValidation)
	}
	s.staging.Stage(id, mapper.ToAnnotationModel(doc))
	return nil
}

func (s *annotationService) ModifySegment(ctx context.Context, id string, index int, seg *dto.Segment) error {
	if err := schema.ValidateSegment(seg); err != nil {
		return err
	}

	if _, ok := s.staging.Get(id); !ok {
		// Fill from disk so an already-persisted document can be edited
		// without an explicit staging round first.
		docDTO, err := s.sidecar.Read(id)
		if err != nil && !errors.Is(err, apperrors.ErrDecode) {
			return err
		}
		if err == nil && docDTO != nil && schema.Validate(docDTO) == nil {
			s.staging.Stage(id, mapper.ToAnnotationModel(docDTO))
		}
	}

	return s.staging.ModifySegment(id, index, mapper.ToSegmentModel(seg))
}

// Finalize commits a staged document to its sidecar and consumes the staging
// entry. With isModify set and a sidecar already on disk, the staged segments
// are merged into the existing document instead of replacing it wholesale.
func (s *annotationService) Finalize(ctx context.Context, id string, isModify bool) (string, error) {
	staged, ok := s.staging.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: no staged annotations for %q", apperrors.ErrNotFound, id)
	}

	doc := merge.Merge(nil, staged)
	if isModify {
		if existingDTO, err := s.sidecar.Read(id); err == nil && existingDTO != nil {
			if schema.Validate(existingDTO) == nil {
				doc = merge.Merge(mapper.ToAnnotationModel(existingDTO), staged)
			}
		}
	}
	s.normalize(doc, id)

	if err := schema.ValidateSegments(doc.Segments); err != nil {
		return "", err
	}

	if s.sidecar.Exists(id) {
		if err := s.sidecar.Backup(id); err != nil {
			return "", err
		}
	}
	if err := s.sidecar.Write(id, doc); err != nil {
		return "", err
	}
	s.staging.Remove(id)

	s.publish(events.TypeAnnotationFinalized, id, len(doc.Segments))
	return s.sidecar.SidecarPath(id), nil
}

func (s *annotationService) Delete(ctx context.Context, id string) error {
	s.staging.Remove(id)
	if err := s.sidecar.Delete(id); err != nil {
		return err
	}
	s.publish(events.TypeAnnotationDeleted, id, 0)
	return nil
}

// resynthesize replaces an unusable document with a fresh empty one and
// caches it so subsequent staged edits see the same instance.
func (s *annotationService) resynthesize(id string) *model.AnnotationDocument {
	doc := s.newDocument(id)
	s.staging.Stage(id, doc)
	return doc
}

func (s *annotationService) newDocument(id string) *model.AnnotationDocument {
	return &model.AnnotationDocument{
		Info:           defaultInfo(id),
		Segments:       []model.Segment{},
		AdditionalInfo: defaultAdditionalInfo(),
	}
}

// normalize fills the metadata a partial staged document may lack, field by
// field, so a finalized file always passes the document schema on the next
// read. Out-of-range values fall back to defaults the same way missing ones
// do; staged documents carry no guarantee of a coherent info block.
func (s *annotationService) normalize(doc *model.AnnotationDocument, id string) {
	def := defaultInfo(id)
	if doc.Info.Filename == "" {
		doc.Info.Filename = def.Filename
	}
	if doc.Info.Format == "" {
		doc.Info.Format = def.Format
	}
	if doc.Info.Environment < 1 || doc.Info.Environment > 10 {
		doc.Info.Environment = def.Environment
	}
	if doc.Info.Device == "" {
		doc.Info.Device = def.Device
	}
	if doc.Info.FrameRate <= 0 {
		doc.Info.FrameRate = def.FrameRate
	}
	if doc.Info.Date == "" {
		doc.Info.Date = def.Date
	}
	if doc.Segments == nil {
		doc.Segments = []model.Segment{}
	}
	if doc.AdditionalInfo == nil {
		doc.AdditionalInfo = defaultAdditionalInfo()
	}
}

// synthesizeInfo builds the info block for a brand-new sidecar, upgrading
// the defaults with probed container metadata when the video file is
// reachable. Probe failure never blocks document creation.
func (s *annotationService) synthesizeInfo(ctx context.Context, videoPath string) model.VideoInfo {
	info := defaultInfo(videoPath)

	stat, err := os.Stat(videoPath)
	if err != nil {
		return info
	}
	info.Size = stat.Size()

	res, err := s.prober.Probe(ctx, videoPath)
	if err != nil {
		s.logger.Warn("annotation", "video probe failed, using defaults", map[string]interface{}{
			"video_path": videoPath,
			"error":      err.Error(),
		})
		return info
	}
	info.WidthHeight = [2]int{res.Width, res.Height}
	if res.FPS > 0 {
		info.FrameRate = res.FPS
	}
	info.Playtime = res.Duration
	return info
}

func defaultInfo(videoPath string) model.VideoInfo {
	format := strings.TrimPrefix(filepath.Ext(videoPath), ".")
	if format == "" || format == "json" {
		format = constant.DefaultFormat
	}
	return model.VideoInfo{
		Filename:    filepath.Base(videoPath),
		Format:      format,
		Size:        0,
		WidthHeight: [2]int{0, 0},
		Environment: constant.DefaultEnvironment,
		Device:      constant.DefaultDevice,
		FrameRate:   constant.DefaultFrameRate,
		Playtime:    0,
		Date:        time.Now().Format(constant.DateLayout),
	}
}

func defaultAdditionalInfo() map[string]interface{} {
	return map[string]interface{}{
		"InteractionType": constant.DefaultInteractionType,
	}
}

func (s *annotationService) publish(eventType, videoPath string, segments int) {
	err := s.publisher.Publish(events.AnnotationEvent{
		Type:         eventType,
		VideoPath:    videoPath,
		SegmentCount: segments,
	})
	if err != nil {
		s.logger.Warn("annotation", "failed to publish annotation event", map[string]interface{}{
			"type":       eventType,
			"video_path": videoPath,
			"error":      err.Error(),
		})
	}
}
