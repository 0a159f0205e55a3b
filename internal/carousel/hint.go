package carousel

import (
	"errors"
	"strings"
)

var ErrEmptyHint = errors.New("hint is empty")

// CleanHint trims the hint and rejects blank input. Shells call it before
// handing the hint to the pipeline.
func CleanHint(hint string) (string, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", ErrEmptyHint
	}
	return hint, nil
}
