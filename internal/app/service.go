package app

import (
	"io"

	"carousel/internal/document"
	"carousel/internal/generator"
	"carousel/internal/render"
	"carousel/internal/storage"
	"carousel/pkg/config"
)

type Service struct {
	cfg       *config.Config
	generator *generator.Generator
	renderer  *render.Renderer
	assembler *document.Assembler
	storage   *storage.LocalStorage
	mirror    storage.DeckMirror
}

type ServiceOptions struct {
	Config    *config.Config
	Generator *generator.Generator
	Renderer  *render.Renderer
	Assembler *document.Assembler
	Storage   *storage.LocalStorage
	Mirror    storage.DeckMirror
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:       opts.Config,
		generator: opts.Generator,
		renderer:  opts.Renderer,
		assembler: opts.Assembler,
		storage:   opts.Storage,
		mirror:    opts.Mirror,
	}
}

func (s *Service) Config() *config.Config {
	return s.cfg
}

func (s *Service) Generator() *generator.Generator {
	return s.generator
}

func (s *Service) Renderer() *render.Renderer {
	return s.renderer
}

func (s *Service) Assembler() *document.Assembler {
	return s.assembler
}

func (s *Service) Storage() *storage.LocalStorage {
	return s.storage
}

// Mirror is nil unless GCS is enabled.
func (s *Service) Mirror() storage.DeckMirror {
	return s.mirror
}

// Close releases remote clients held by the service.
func (s *Service) Close() error {
	if closer, ok := s.mirror.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
