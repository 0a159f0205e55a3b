package render

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"strconv"

	"github.com/spf13/afero"

	"carousel/internal/carousel"
)

type Assets struct {
	FontBold    string
	FontRegular string
	AIIcon      string
	SwipeIcon   string
}

type Options struct {
	Assets    Assets
	CTAFooter string
	Template  TemplateSource
}

// Renderer draws 1080×1080 slides. Fonts are read on every call, so a
// Renderer holds no mutable drawing state and is safe to share.
type Renderer struct {
	fs   afero.Fs
	opts Options
}

func New(fs afero.Fs, opts Options) *Renderer {
	return &Renderer{fs: fs, opts: opts}
}

func (r *Renderer) fonts() (*fontSet, error) {
	return loadFonts(r.fs, r.opts.Assets.FontBold, r.opts.Assets.FontRegular)
}

func (r *Renderer) RenderCover(title, subtitle string) (carousel.RenderedSlide, error) {
	fonts, err := r.fonts()
	if err != nil {
		return carousel.RenderedSlide{}, err
	}
	defer fonts.Close()
	return r.cover(fonts, title, subtitle)
}

func (r *Renderer) RenderSlide(index int, slide carousel.SlideContent) (carousel.RenderedSlide, error) {
	fonts, err := r.fonts()
	if err != nil {
		return carousel.RenderedSlide{}, err
	}
	defer fonts.Close()
	return r.content(fonts, index, slide)
}

func (r *Renderer) RenderCTA(text string) (carousel.RenderedSlide, error) {
	fonts, err := r.fonts()
	if err != nil {
		return carousel.RenderedSlide{}, err
	}
	defer fonts.Close()
	return r.cta(fonts, text)
}

// RenderListSlide draws slide index (1-based) of total onto the template.
func (r *Renderer) RenderListSlide(ctx context.Context, index, total int, slide carousel.SlideContent) (carousel.RenderedSlide, error) {
	tmpl, err := r.template(ctx)
	if err != nil {
		return carousel.RenderedSlide{}, err
	}
	fonts, err := r.fonts()
	if err != nil {
		return carousel.RenderedSlide{}, err
	}
	defer fonts.Close()
	return r.list(fonts, tmpl, index, total, slide)
}

// RenderDeck renders every slide of content in display order: cover, content
// slides, CTA for the carousel variant; content slides only for list.
func (r *Renderer) RenderDeck(ctx context.Context, content *carousel.Content) ([]carousel.RenderedSlide, error) {
	var tmpl image.Image
	if content.Variant == carousel.VariantList {
		var err error
		if tmpl, err = r.template(ctx); err != nil {
			return nil, err
		}
	}

	fonts, err := r.fonts()
	if err != nil {
		return nil, err
	}
	defer fonts.Close()

	slides := make([]carousel.RenderedSlide, 0, len(content.Slides)+2)
	add := func(s carousel.RenderedSlide, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		slides = append(slides, s)
		return nil
	}

	if content.Variant == carousel.VariantList {
		total := len(content.Slides)
		for i, s := range content.Slides {
			if err := add(r.list(fonts, tmpl, i+1, total, s)); err != nil {
				return nil, err
			}
		}
		return slides, nil
	}

	if err := add(r.cover(fonts, content.CoverTitle, content.CoverSubtitle)); err != nil {
		return nil, err
	}
	for i, s := range content.Slides {
		if err := add(r.content(fonts, i+1, s)); err != nil {
			return nil, err
		}
	}
	if err := add(r.cta(fonts, content.CTA)); err != nil {
		return nil, err
	}

	return slides, nil
}

func (r *Renderer) cover(fonts *fontSet, title, subtitle string) (carousel.RenderedSlide, error) {
	canvas := gradient(carousel.SlideWidth, carousel.SlideHeight)

	lines, err := r.block(canvas, fonts, coverTitle, Wrap(title, coverTitle.wrap), 0)
	if err != nil {
		return carousel.RenderedSlide{}, err
	}
	// The subtitle drops 40px per title line, independent of the title step.
	if _, err := r.block(canvas, fonts, coverSubtitle, []string{subtitle}, lines*coverSubtitle.step); err != nil {
		return carousel.RenderedSlide{}, err
	}

	img := overlayIcon(r.fs, canvas, r.opts.Assets.SwipeIcon, swipeIconSize, swipeIconAt)
	return carousel.RenderedSlide{Kind: carousel.KindCover, Image: img}, nil
}

func (r *Renderer) content(fonts *fontSet, index int, slide carousel.SlideContent) (carousel.RenderedSlide, error) {
	canvas := gradient(carousel.SlideWidth, carousel.SlideHeight)

	if err := r.number(canvas, fonts, slideNumber, index); err != nil {
		return carousel.RenderedSlide{}, err
	}
	lines, err := r.block(canvas, fonts, slideTitle, Wrap(slide.Title, slideTitle.wrap), 0)
	if err != nil {
		return carousel.RenderedSlide{}, err
	}
	if _, err := r.block(canvas, fonts, slideBody, Wrap(slide.Content, slideBody.wrap), lines*slideTitle.step); err != nil {
		return carousel.RenderedSlide{}, err
	}

	img := overlayIcon(r.fs, canvas, r.opts.Assets.AIIcon, aiIconSize, aiIconAt)
	return carousel.RenderedSlide{Kind: carousel.KindContent, Index: index, Image: img}, nil
}

func (r *Renderer) cta(fonts *fontSet, text string) (carousel.RenderedSlide, error) {
	canvas := gradient(carousel.SlideWidth, carousel.SlideHeight)

	if _, err := r.block(canvas, fonts, ctaText, Wrap(text, ctaText.wrap), 0); err != nil {
		return carousel.RenderedSlide{}, err
	}
	if _, err := r.block(canvas, fonts, ctaFooter, []string{r.opts.CTAFooter}, 0); err != nil {
		return carousel.RenderedSlide{}, err
	}

	return carousel.RenderedSlide{Kind: carousel.KindCTA, Image: canvas}, nil
}

func (r *Renderer) list(fonts *fontSet, tmpl image.Image, index, total int, slide carousel.SlideContent) (carousel.RenderedSlide, error) {
	canvas := fitTemplate(tmpl)

	if err := r.number(canvas, fonts, listNumber, index); err != nil {
		return carousel.RenderedSlide{}, err
	}
	lines, err := r.block(canvas, fonts, listTitle, Wrap(slide.Title, listTitle.wrap), 0)
	if err != nil {
		return carousel.RenderedSlide{}, err
	}
	body := listBody
	body.y = listTitle.y + lines*listTitle.step + listBodyGap
	if _, err := r.block(canvas, fonts, body, Wrap(slide.Content, body.wrap), 0); err != nil {
		return carousel.RenderedSlide{}, err
	}

	var img image.Image = canvas
	if index == total {
		img = overlayIcon(r.fs, canvas, r.opts.Assets.SwipeIcon, swipeIconSize, swipeIconAt)
	}
	return carousel.RenderedSlide{Kind: carousel.KindContent, Index: index, Image: img}, nil
}

func (r *Renderer) template(ctx context.Context) (image.Image, error) {
	if r.opts.Template == nil {
		return nil, fmt.Errorf("%w: no template configured", carousel.ErrAssetMissing)
	}
	return r.opts.Template.Template(ctx)
}

// block draws lines for b shifted down by offset and reports how many lines
// it drew.
func (r *Renderer) block(dst draw.Image, fonts *fontSet, b textBlock, lines []string, offset int) (int, error) {
	face, err := fonts.face(b.bold, b.size)
	if err != nil {
		return 0, err
	}
	drawLines(dst, face, b.x, b.y+offset, b.step, lines, b.color)
	return len(lines), nil
}

func (r *Renderer) number(dst draw.Image, fonts *fontSet, b textBlock, n int) error {
	face, err := fonts.face(b.bold, b.size)
	if err != nil {
		return err
	}
	drawText(dst, face, b.x, b.y, strconv.Itoa(n), b.color)
	return nil
}
