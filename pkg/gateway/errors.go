package gateway

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrEmptyCompletion is returned when the gateway answers 200 with no
	// message content.
	ErrEmptyCompletion = errors.New("no content in AI response")

	// ErrCoolingDown is returned when the availability guard is blocking
	// requests after a recent rate-limit or credits rejection.
	ErrCoolingDown = errors.New("gateway cooling down")
)

// ErrorClass represents a classification of gateway errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx errors other than 429/402.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx gateway errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit rejections.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassCredits represents 402 credits-exhausted rejections.
	ErrorClassCredits ErrorClass = "credits"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Error is a gateway-specific error with classification context.
type Error struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// classify maps a response status (or transport error) to an error class.
func classify(statusCode int, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case statusCode == 429:
		return ErrorClassRateLimit
	case statusCode == 402:
		return ErrorClassCredits
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// shouldRetry determines if an error class warrants another attempt.
// Rate-limit and credits rejections are surfaced immediately: retrying them
// burns budget without changing the outcome.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassServer, ErrorClassNetwork:
		return true
	default:
		return false
	}
}
