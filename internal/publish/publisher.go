package publish

import (
	"context"
	"errors"
)

// PageName is the well-known name the page is published under.
const PageName = "index.html"

// ErrNotPublished is returned by Current before anything was published.
var ErrNotPublished = errors.New("page has not been published yet")

// Publisher stores the rendered page, replacing any previous version.
type Publisher interface {
	Publish(ctx context.Context, content []byte, contentType string) error
	Current(ctx context.Context) ([]byte, error)
}
