// Package receipt turns a photo of a receipt into candidate transaction
// fields by asking a hosted generative model for JSON that matches a fixed
// schema, then checking that JSON independently.
//
// Every failure reaches the caller as a *ScanError carrying one generic,
// user-displayable message. The extractor never writes to the ledger.
package receipt

import (
	"context"
	"errors"

	"github.com/mmynk/checkbook/internal/models"
)

// UserMessage is shown for every scan failure.
const UserMessage = "Could not analyze receipt. Please try again or enter the details manually."

var (
	ErrMissingAPIKey  = errors.New("receipt scanning is not configured: API key missing")
	ErrNotAnImage     = errors.New("uploaded file is not an image")
	ErrImageTooLarge  = errors.New("uploaded image is too large")
	ErrEmptyImage     = errors.New("uploaded image is empty")
	ErrInvalidReply   = errors.New("invalid data structure received from model")
	ErrScanInProgress = errors.New("a receipt scan is already running")
)

// Extractor reads a receipt image.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (*models.Receipt, error)
}

// ScanError is the normalised failure of an extraction attempt. Error()
// returns the user message; the underlying cause is only reachable through
// errors.Is / errors.As and is meant for logs.
type ScanError struct {
	Cause error
}

func (e *ScanError) Error() string { return UserMessage }

func (e *ScanError) Unwrap() error { return e.Cause }

func scanFailed(cause error) error {
	return &ScanError{Cause: cause}
}

// Unconfigured is the extractor used when no API key is available: every
// scan fails immediately without a network call.
type Unconfigured struct{}

func (Unconfigured) Extract(context.Context, []byte) (*models.Receipt, error) {
	return nil, scanFailed(ErrMissingAPIKey)
}
