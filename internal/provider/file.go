package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FileProvider serves saved pages from a directory. The wiki prefix of a
// path is dropped, so "/ageofempires/Red_Bull_Wololo/5" is read from
// "<dir>/Red_Bull_Wololo/5" or "<dir>/Red_Bull_Wololo/5.html".
type FileProvider struct {
	dir string
}

// NewFile creates a provider reading from dir
func NewFile(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

// Fetch reads and parses the page saved for path. Pages that are not saved
// are reported as a 404 TransportError.
func (p *FileProvider) Fetch(ctx context.Context, path string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, name := range p.candidates(path) {
		f, err := os.Open(filepath.Join(p.dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("opening page %s: %w", path, err)
		}

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			f.Close() // nolint:errcheck
			continue
		}

		doc, err := goquery.NewDocumentFromReader(f)
		f.Close() // nolint:errcheck
		if err != nil {
			return nil, fmt.Errorf("parsing HTML: %w", err)
		}
		return doc, nil
	}

	return nil, &TransportError{StatusCode: http.StatusNotFound, Path: path}
}

// candidates lists the file names path may be saved under, relative to dir
func (p *FileProvider) candidates(path string) []string {
	rel, _, _ := strings.Cut(path, "?")
	rel = strings.TrimPrefix(rel, "/")
	if _, rest, ok := strings.Cut(rel, "/"); ok {
		rel = rest
	}

	names := []string{rel}
	if unescaped, err := url.PathUnescape(rel); err == nil && unescaped != rel {
		names = append(names, unescaped)
	}

	var out []string
	for _, name := range names {
		local := filepath.FromSlash(name)
		if name == "" || !filepath.IsLocal(local) {
			continue
		}
		out = append(out, local, local+".html")
	}
	return out
}
