// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// SearchError represents a classified failure of a place-search or routing
// backend call. It never crosses the orchestrator boundary; it only shapes
// what gets logged.
type SearchError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType classifies backend failures.
type ErrorType int

const (
	// ErrorTypeUnknown is an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit means the upstream rate limit was hit.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded means the API quota is exhausted.
	ErrorTypeQuotaExceeded
	// ErrorTypeTimeout is a connection or deadline timeout.
	ErrorTypeTimeout
	// ErrorTypeNotFound means the place was not found.
	ErrorTypeNotFound
	// ErrorTypeInvalidRequest is a malformed request.
	ErrorTypeInvalidRequest
	// ErrorTypeNetworkError is a transport-level failure.
	ErrorTypeNetworkError
)

func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// IsRateLimitError reports whether the error was caused by upstream rate
// limiting.
func IsRateLimitError(err error) bool {
	var searchErr *SearchError
	if errors.As(err, &searchErr) {
		return searchErr.Type == ErrorTypeRateLimit
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429")
}

// IsQuotaExceededError reports whether the error was caused by an exhausted
// API quota.
func IsQuotaExceededError(err error) bool {
	var searchErr *SearchError
	if errors.As(err, &searchErr) {
		return searchErr.Type == ErrorTypeQuotaExceeded
	}

	// Google-style status messages
	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "over_query_limit") ||
		strings.Contains(errStr, "quota exceeded")
}

// IsTimeoutError reports whether the error was caused by a timeout.
func IsTimeoutError(err error) bool {
	var searchErr *SearchError
	if errors.As(err, &searchErr) {
		return searchErr.Type == ErrorTypeTimeout
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// ClassifyHTTPStatus maps a non-2xx HTTP status code to a SearchError.
func ClassifyHTTPStatus(statusCode int) *SearchError {
	switch statusCode {
	case http.StatusTooManyRequests: // 429
		return &SearchError{
			Type:    ErrorTypeRateLimit,
			Message: "rate limit reached",
		}
	case http.StatusForbidden: // 403
		return &SearchError{
			Type:    ErrorTypeQuotaExceeded,
			Message: "quota exceeded or access denied",
		}
	case http.StatusBadRequest: // 400
		return &SearchError{
			Type:    ErrorTypeInvalidRequest,
			Message: "invalid request",
		}
	case http.StatusNotFound: // 404
		return &SearchError{
			Type:    ErrorTypeNotFound,
			Message: "not found",
		}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &SearchError{
			Type:    ErrorTypeNetworkError,
			Message: fmt.Sprintf("service unavailable (status %d)", statusCode),
		}
	default:
		return &SearchError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("HTTP error %d", statusCode),
		}
	}
}
