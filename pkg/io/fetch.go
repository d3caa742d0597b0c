package io

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/safedump/pkg/errors"
	"github.com/matzehuels/safedump/pkg/value"
)

// Fetch settings. Variables so tests can shorten the backoff.
var (
	fetchAttempts = 3
	fetchDelay    = time.Second
)

// maxFetchSize bounds the size of a downloaded document.
const maxFetchSize = 32 << 20

// retryableError marks a transient fetch failure (network error, 5xx or 429).
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// IsURL reports whether s names an http or https document.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads the document at rawURL and decodes it. An empty format is
// inferred from the extension of the URL path. Transient failures are
// retried with exponential backoff; a nil client uses http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, rawURL string, f Format) (value.Value, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !IsURL(rawURL) {
		return nil, errors.New(errors.ErrCodeInvalidPath, "invalid document URL %q", rawURL)
	}
	if f == "" {
		if f, err = FormatFromPath(u.Path); err != nil {
			return nil, err
		}
	}
	if client == nil {
		client = http.DefaultClient
	}

	var body []byte
	err = retry(ctx, fetchAttempts, fetchDelay, func() error {
		var ferr error
		body, ferr = get(ctx, client, u.String())
		return ferr
	})
	if err != nil {
		var rerr *retryableError
		if stderrors.As(err, &rerr) {
			err = rerr.err
		}
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "fetch %s", rawURL)
	}
	return Read(bytes.NewReader(body), f)
}

// get performs one GET request and classifies the outcome.
func get(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &retryableError{err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeFileNotFound, "fetch %s: %s", rawURL, resp.Status)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &retryableError{fmt.Errorf("fetch %s: %s", rawURL, resp.Status)}
	case resp.StatusCode >= 300:
		return nil, errors.New(errors.ErrCodeInvalidInput, "fetch %s: %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize+1))
	if err != nil {
		return nil, &retryableError{err}
	}
	if len(body) > maxFetchSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fetch %s: document larger than %d bytes", rawURL, maxFetchSize)
	}
	return body, nil
}

// retry runs fn up to attempts times, doubling delay after each failure.
// Only *retryableError failures are retried; anything else is returned
// immediately, as is ctx.Err() when ctx ends during a wait.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !stderrors.As(err, new(*retryableError)) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
