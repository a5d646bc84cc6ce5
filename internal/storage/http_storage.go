package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
)

const maxAttempts = 3

type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (DecodedImage, error)
}

// HTTPImageFetcher downloads a single image with retries on transient
// failures.
type HTTPImageFetcher struct {
	client   *http.Client
	maxBytes int64
	// backoff is the delay before retry n (1-based) is multiplied from.
	backoff time.Duration
	limiter *rate.Limiter
}

// NewHTTPImageFetcher creates a fetcher with a per-request timeout and a
// response size cap.
func NewHTTPImageFetcher(timeout time.Duration, maxBytes int64) *HTTPImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: maxBytes,
		backoff:  time.Second,
		limiter:  rate.NewLimiter(rate.Inf, 0),
	}
}

// WithRateLimit caps outgoing requests, retries included, at rps with the
// given burst. A non-positive rps leaves the fetcher unlimited.
func (h *HTTPImageFetcher) WithRateLimit(rps float64, burst int) *HTTPImageFetcher {
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return h
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (DecodedImage, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return DecodedImage{}, apperrors.NewTimeoutError("image fetch cancelled", ctx.Err())
			case <-time.After(time.Duration(attempt) * h.backoff):
			}
		}

		if err := h.limiter.Wait(ctx); err != nil {
			return DecodedImage{}, apperrors.NewTimeoutError("image fetch rate limited", err)
		}

		data, retry, err := h.fetchOnce(ctx, imageURL)
		if err == nil {
			return DecodeBytes(data)
		}
		lastErr = err
		if !retry {
			break
		}
	}

	var appErr *apperrors.AppError
	if errors.As(lastErr, &appErr) {
		return DecodedImage{}, lastErr
	}
	return DecodedImage{}, apperrors.NewNetworkError(
		fmt.Sprintf("failed to fetch image after %d attempts", maxAttempts), lastErr)
}

// fetchOnce performs one GET. retry reports whether the failure is
// transient (transport error, 429 or 5xx).
func (h *HTTPImageFetcher) fetchOnce(ctx context.Context, imageURL string) (data []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, false, apperrors.NewValidationError("invalid URL", err)
	}
	req.Header.Set("Accept", "image/webp, image/png, image/jpeg, image/svg+xml, */*")
	req.Header.Set("User-Agent", "assetpipe/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, apperrors.NewTimeoutError("image fetch timed out", err)
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("rate limited: status code %d", resp.StatusCode)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, apperrors.NewNetworkError(
			fmt.Sprintf("client error: status code %d", resp.StatusCode), nil)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, apperrors.NewNetworkError(
			fmt.Sprintf("unexpected status code %d", resp.StatusCode), nil)
	}

	var body io.Reader = resp.Body
	if h.maxBytes > 0 {
		body = io.LimitReader(resp.Body, h.maxBytes+1)
	}
	data, err = io.ReadAll(body)
	if err != nil {
		return nil, true, err
	}
	if h.maxBytes > 0 && int64(len(data)) > h.maxBytes {
		return nil, false, apperrors.NewValidationError("image exceeds size limit", nil).
			WithDetails(fmt.Sprintf("limit %d bytes", h.maxBytes))
	}
	return data, false, nil
}
