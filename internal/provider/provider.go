package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
)

// Provider retrieves a parsed page by its wiki path, e.g. "/ageofempires/Portal:Tournaments"
type Provider interface {
	Fetch(ctx context.Context, path string) (*goquery.Document, error)
}

// TransportError is a page request that did not return a document
type TransportError struct {
	StatusCode int
	Path       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status code: %d", e.Path, e.StatusCode)
}

// retryable reports whether the request may succeed when repeated
func (e *TransportError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsNotFound reports whether err is a TransportError for a missing page
func IsNotFound(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == http.StatusNotFound
}
