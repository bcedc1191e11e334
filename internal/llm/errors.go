package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// Provider failures are collapsed into four categories so the caller
// can pick a distinct user-facing reply for each without knowing which
// provider produced the error.
var (
	ErrConnection = errors.New("llm: connection failed")
	ErrAuth       = errors.New("llm: authentication failed")
	ErrRateLimit  = errors.New("llm: rate limited")
	ErrAPI        = errors.New("llm: api request failed")
)

func categorize(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimit, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrAPI, err)
}
