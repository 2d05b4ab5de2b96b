package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

var ErrResourceNotFound = errors.New("resource not found")

// ResourceClient fetches language resources (tokenizer training data) over HTTP.
type ResourceClient struct {
	Client     *http.Client
	maxRetries uint64
	backoff    time.Duration
}

func NewResourceClient(timeout time.Duration) *ResourceClient {
	slog.Info("[ResourceClient] Initializing Client",
		slog.Duration("timeout", timeout))

	return &ResourceClient{
		Client:     &http.Client{Timeout: timeout},
		maxRetries: MAX_RETRIES,
		backoff:    INITIAL_BACKOFF,
	}
}

// WithBackoff overrides the retry schedule.
func (r *ResourceClient) WithBackoff(maxRetries uint64, initial time.Duration) *ResourceClient {
	r.maxRetries = maxRetries
	r.backoff = initial
	return r
}

// Fetch downloads url and returns its body. 5xx responses and transport errors are
// retried with exponential backoff; 404 is returned as ErrResourceNotFound at once.
func (r *ResourceClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	start := time.Now()
	attempt := 0

	b := retry.WithCappedDuration(MAX_BACKOFF, retry.NewExponential(r.backoff))
	b = retry.WithMaxRetries(r.maxRetries, b)

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		data, err := r.fetchOnce(ctx, url)
		if err == nil {
			body = data
			return nil
		}

		var retryable *retryableStatusError
		if errors.As(err, &retryable) || isTransportError(err) {
			slog.Warn("[ResourceClient] Request failed, will retry",
				slog.Int("attempt", attempt),
				slog.String("url", url),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		slog.Error("[ResourceClient] Download failed",
			slog.String("url", url),
			slog.Int("attempts", attempt),
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	slog.Info("[ResourceClient] Download successful",
		slog.String("url", url),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)))
	return body, nil
}

func (r *ResourceClient) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, url)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &retryableStatusError{status: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MAX_RESOURCE_SIZE))
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("failed to read response: %w", err)}
	}
	return data, nil
}

type retryableStatusError struct {
	status int
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("status code %d", e.status)
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func isTransportError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var te *transportError
	return errors.As(err, &te)
}
