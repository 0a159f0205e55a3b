package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"carousel/internal/carousel"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Pointer fields distinguish a missing key from an empty value.
type slidePayload struct {
	Title   *string `json:"title" validate:"required"`
	Content *string `json:"content" validate:"required"`
}

type carouselPayload struct {
	CoverTitle    *string        `json:"cover_title" validate:"required"`
	CoverSubtitle string         `json:"cover_subtitle"`
	Slides        []slidePayload `json:"slides" validate:"required,dive"`
	CTA           *string        `json:"cta" validate:"required"`
}

type listPayload struct {
	Items []slidePayload `validate:"required,dive"`
}

// ParseCarousel decodes a cover/slides/cta object and requires exactly count
// slides.
func ParseCarousel(raw string, count int) (*carousel.Content, error) {
	var payload carouselPayload
	if err := decode(raw, &payload); err != nil {
		return nil, err
	}
	if err := validate.Struct(payload); err != nil {
		return nil, shapeError(err)
	}
	if len(payload.Slides) != count {
		return nil, fmt.Errorf("%w: got %d slides, want %d", carousel.ErrContentShape, len(payload.Slides), count)
	}

	return &carousel.Content{
		Variant:       carousel.VariantCarousel,
		CoverTitle:    *payload.CoverTitle,
		CoverSubtitle: payload.CoverSubtitle,
		Slides:        toSlides(payload.Slides),
		CTA:           *payload.CTA,
	}, nil
}

// ParseList decodes a bare array of title/content pairs and requires exactly
// count entries.
func ParseList(raw string, count int) (*carousel.Content, error) {
	var payload listPayload
	if err := decode(raw, &payload.Items); err != nil {
		return nil, err
	}
	if err := validate.Struct(payload); err != nil {
		return nil, shapeError(err)
	}
	if len(payload.Items) != count {
		return nil, fmt.Errorf("%w: got %d slides, want %d", carousel.ErrContentShape, len(payload.Items), count)
	}

	return &carousel.Content{
		Variant: carousel.VariantList,
		Slides:  toSlides(payload.Items),
	}, nil
}

func decode(raw string, v any) error {
	body := stripFences(raw)
	if body == "" {
		return fmt.Errorf("%w: empty reply", carousel.ErrContentShape)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("%w: %v", carousel.ErrContentShape, err)
	}
	return nil
}

func shapeError(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return fmt.Errorf("%w: missing %s", carousel.ErrContentShape, verrs[0].Namespace())
	}
	return fmt.Errorf("%w: %v", carousel.ErrContentShape, err)
}

// stripFences removes a surrounding ```json ... ``` block some models emit
// even when asked for bare JSON.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func toSlides(in []slidePayload) []carousel.SlideContent {
	out := make([]carousel.SlideContent, len(in))
	for i, s := range in {
		out[i] = carousel.SlideContent{Title: *s.Title, Content: *s.Content}
	}
	return out
}
