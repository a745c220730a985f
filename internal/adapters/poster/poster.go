// Package poster publishes finished announcements.
package poster

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Response is what the platform returned for one post.
type Response struct {
	ID   string
	Text string
}

// Poster performs exactly one external post per call. Failures are not
// retried.
type Poster interface {
	Post(ctx context.Context, text string) (Response, error)
}

const consoleSeparator = "----"

// Console prints posts instead of publishing them. Used in offline mode.
type Console struct {
	mu sync.Mutex
	w  io.Writer
	n  int
}

// NewConsole returns a poster writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Post implements Poster.
func (c *Console) Post(ctx context.Context, text string) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrPosting, err)
	}
	if strings.TrimSpace(text) == "" {
		return Response{}, ErrEmptyPostText
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.w, "%s\n%s\n", text, consoleSeparator); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrPosting, err)
	}
	c.n++
	return Response{ID: "console-" + strconv.Itoa(c.n), Text: text}, nil
}
