package carousel

import (
	"image"
	"strconv"
)

const (
	SlideWidth  = 1080
	SlideHeight = 1080

	DefaultSlideCount = 6
)

type Variant string

const (
	// VariantCarousel renders cover, content slides and CTA on a gradient and
	// combines them into one document.
	VariantCarousel Variant = "carousel"
	// VariantList renders plain title/content pairs onto a shared template image.
	VariantList Variant = "list"
)

func (v Variant) Valid() bool {
	return v == VariantCarousel || v == VariantList
}

type SlideKind string

const (
	KindCover   SlideKind = "cover"
	KindContent SlideKind = "content"
	KindCTA     SlideKind = "cta"
)

type SlideContent struct {
	Title   string
	Content string
}

// Content is the parsed LLM reply. Cover and CTA fields are empty for the
// list variant.
type Content struct {
	Variant       Variant
	CoverTitle    string
	CoverSubtitle string
	Slides        []SlideContent
	CTA           string
}

// Title picks a human-readable name for the deck.
func (c *Content) Title() string {
	if c.CoverTitle != "" {
		return c.CoverTitle
	}
	if len(c.Slides) > 0 {
		return c.Slides[0].Title
	}
	return ""
}

type RenderedSlide struct {
	Kind  SlideKind
	Index int
	Image image.Image
}

// Name is the file stem used when the slide is written to disk.
func (s RenderedSlide) Name() string {
	switch s.Kind {
	case KindCover:
		return "cover"
	case KindCTA:
		return "cta"
	default:
		return "slide_" + strconv.Itoa(s.Index)
	}
}

type Document struct {
	Data   []byte
	Pages  int
	Width  float64
	Height float64
}

type Deck struct {
	ID       string
	Variant  Variant
	Slides   []RenderedSlide
	Document *Document
}
