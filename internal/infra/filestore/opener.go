package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Opener reads an asset from whichever store owns its URL and falls back to
// a plain HTTP GET for absolute URLs no store claims.
type Opener struct {
	stores []Store
	client *http.Client
}

func NewOpener(stores ...Store) *Opener {
	return &Opener{stores: stores, client: &http.Client{Timeout: 60 * time.Second}}
}

func (o *Opener) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	for _, s := range o.stores {
		rc, err := s.Open(ctx, url)
		if errors.Is(err, ErrForeignURL) {
			continue
		}
		return rc, err
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}
