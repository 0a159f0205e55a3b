// Package llm defines the single chat-completion call the content generator
// needs and the provider clients that implement it.
package llm

import (
	"context"
	"errors"
)

var (
	ErrNoResponse    = errors.New("no response")
	ErrEmptyResponse = errors.New("empty response")
)

// Request is one system+user exchange. Zero Temperature and MaxTokens leave
// the provider defaults in place.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	JSON        bool
}

type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
