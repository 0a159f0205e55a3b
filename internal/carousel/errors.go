package carousel

import "errors"

var (
	// ErrConfiguration is returned when required settings are missing at startup.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrGeneration is returned when the LLM call itself fails.
	ErrGeneration = errors.New("content generation failed")

	// ErrContentShape is returned when the LLM reply cannot be parsed into the
	// requested shape.
	ErrContentShape = errors.New("unexpected content shape")

	// ErrAssetMissing is returned when a required font or template is absent.
	ErrAssetMissing = errors.New("asset missing")
)
