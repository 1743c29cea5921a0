package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchedImage is the raw outcome of downloading an image URL.
type FetchedImage struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// ImageFetcher downloads the picture behind an image URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedImage, error)
}

type httpImageFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPImageFetcher returns a fetcher that gives up after timeout and
// rejects bodies larger than maxBytes.
func NewHTTPImageFetcher(timeout time.Duration, maxBytes int64) ImageFetcher {
	return &httpImageFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

func (f *httpImageFetcher) Fetch(ctx context.Context, url string) (*FetchedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	fetched := &FetchedImage{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fetched, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("image larger than %d bytes", f.maxBytes)
	}
	fetched.Body = body
	return fetched, nil
}
