// Package binance fetches closing prices for the last fully closed one-minute
// bucket from the Binance klines API, with bounded retry.
package binance

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBadRequest indicates a 400 response; the request parameters are wrong.
	ErrBadRequest = errors.New("bad request, check API parameters")
	// ErrUnauthorized indicates a 401 response.
	ErrUnauthorized = errors.New("unauthorized, API key issue")
	// ErrForbidden indicates a 403 response.
	ErrForbidden = errors.New("forbidden, access denied")
	// ErrNotFound indicates a 404 response; check symbol and interval.
	ErrNotFound = errors.New("not found, check symbol and interval")
	// ErrRateLimited indicates a 429 response.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrServerError indicates a 5xx response.
	ErrServerError = errors.New("exchange server error")
	// ErrUnexpectedStatus indicates any other non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrInvalidResponse indicates a body that is not a kline array.
	ErrInvalidResponse = errors.New("invalid klines response")
	// ErrEmptyResponse indicates a 2xx response carrying no kline data.
	ErrEmptyResponse = errors.New("no kline data received")
	// ErrMalformedKline indicates a kline record without the expected shape.
	ErrMalformedKline = errors.New("malformed kline record")
	// ErrRetriesExhausted is the terminal state of a fetch: every attempt
	// failed and the retry budget is spent.
	ErrRetriesExhausted = errors.New("fetch retries exhausted")
)

// classifyStatus maps a non-2xx HTTP status to a sentinel error. Every class
// currently feeds the same retry path; the classification exists for error
// reporting and metrics.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w (status %d)", ErrBadRequest, code)
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, code)
	case code == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrForbidden, code)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w (status %d)", ErrNotFound, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w (status %d)", ErrRateLimited, code)
	case code >= 500 && code <= 599:
		return fmt.Errorf("%w (status %d)", ErrServerError, code)
	default:
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}
}
