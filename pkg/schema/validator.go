// Package schema checks annotation documents against the required-shape
// contract. All functions are pure: no I/O, no mutation of the input, and the
// first violated rule is reported (fail-fast, not an aggregate).
package schema

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"video-labeling-be/internal/dto"
	"video-labeling-be/internal/model"
	"video-labeling-be/internal/pkg/apperrors"
)

// durationTolerance is the allowed drift between duration and the
// end_time - start_time difference when both timestamps are present.
const durationTolerance = 0.1

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names in violations instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a full document: all three top-level sections present, the
// info block complete, and every segment satisfying the segment rules. An
// empty segment list is valid.
func Validate(doc *dto.AnnotationDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document must be an object", apperrors.ErrValidation)
	}
	if doc.Info == nil {
		return fmt.Errorf("%w: missing required section: info", apperrors.ErrValidation)
	}
	if doc.Segments == nil {
		return fmt.Errorf("%w: missing required section: segments", apperrors.ErrValidation)
	}
	if doc.AdditionalInfo == nil {
		return fmt.Errorf("%w: missing required section: additional_info", apperrors.ErrValidation)
	}

	if err := validate.Struct(doc.Info); err != nil {
		return violation("info", err)
	}

	seen := make(map[int]struct{}, len(doc.Segments))
	for i := range doc.Segments {
		seg := &doc.Segments[i]
		if err := ValidateSegment(seg); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		id := *seg.SegmentID
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: segment %d: duplicate segment_id %d", apperrors.ErrValidation, i, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ValidateSegment checks one wire segment: required fields present, coded
// fields within their closed ranges, and the relational frame/time rules.
func ValidateSegment(seg *dto.Segment) error {
	if seg == nil {
		return fmt.Errorf("%w: segment must be an object", apperrors.ErrValidation)
	}
	if err := validate.Struct(seg); err != nil {
		return violation("", err)
	}
	return checkSegmentRelations(segmentValues(seg))
}

// ValidateSegments re-checks the numeric and relational invariants on
// already-decoded segments, e.g. a merged result about to be persisted.
// Field presence is structural at this point and not re-checked.
func ValidateSegments(segments []model.Segment) error {
	seen := make(map[int]struct{}, len(segments))
	for i, seg := range segments {
		if err := checkSegmentValues(seg); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		if _, dup := seen[seg.SegmentID]; dup {
			return fmt.Errorf("%w: segment %d: duplicate segment_id %d", apperrors.ErrValidation, i, seg.SegmentID)
		}
		seen[seg.SegmentID] = struct{}{}
	}
	return nil
}

func segmentValues(seg *dto.Segment) model.Segment {
	return model.Segment{
		SegmentID:  *seg.SegmentID,
		StartFrame: *seg.StartFrame,
		EndFrame:   *seg.EndFrame,
		StartTime:  seg.StartTime,
		EndTime:    seg.EndTime,
		Duration:   *seg.Duration,
		Action:     *seg.Action,
		Age:        *seg.Age,
		Gender:     *seg.Gender,
		Disability: *seg.Disability,
		Keyframe:   seg.Keyframe,
	}
}

func checkSegmentValues(seg model.Segment) error {
	if seg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", apperrors.ErrValidation)
	}
	if seg.Action < 1 || seg.Action > 4 {
		return fmt.Errorf("%w: action must be within 1-4", apperrors.ErrValidation)
	}
	if seg.Age < 1 || seg.Age > 3 {
		return fmt.Errorf("%w: age must be within 1-3", apperrors.ErrValidation)
	}
	if seg.Gender < 1 || seg.Gender > 2 {
		return fmt.Errorf("%w: gender must be within 1-2", apperrors.ErrValidation)
	}
	if seg.Disability < 1 || seg.Disability > 2 {
		return fmt.Errorf("%w: disability must be within 1-2", apperrors.ErrValidation)
	}
	return checkSegmentRelations(seg)
}

func checkSegmentRelations(seg model.Segment) error {
	if seg.StartFrame >= seg.EndFrame {
		return fmt.Errorf("%w: start_frame must be less than end_frame", apperrors.ErrValidation)
	}
	if seg.Keyframe != nil {
		if kf := *seg.Keyframe; kf < seg.StartFrame || kf > seg.EndFrame {
			return fmt.Errorf("%w: keyframe must lie between start_frame and end_frame", apperrors.ErrValidation)
		}
	}
	if seg.StartTime != nil && seg.EndTime != nil {
		span := *seg.EndTime - *seg.StartTime
		if span <= 0 {
			return fmt.Errorf("%w: end_time must be greater than start_time", apperrors.ErrValidation)
		}
		if math.Abs(seg.Duration-span) > durationTolerance {
			return fmt.Errorf("%w: duration does not match start_time/end_time span", apperrors.ErrValidation)
		}
	}
	return nil
}

// violation flattens a validator error into the first failed rule.
func violation(section string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Field()
		if section != "" {
			field = section + "." + field
		}
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: missing required field: %s", apperrors.ErrValidation, field)
		}
		return fmt.Errorf("%w: field %s violates rule %s", apperrors.ErrValidation, field, fe.Tag())
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}
