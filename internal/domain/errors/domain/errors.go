// Package domain provides domain-specific error definitions and utilities.
package domain

import "errors"

// README URL normalization errors. The message of each error is shown to the
// user verbatim, so it reads as an instruction rather than a diagnosis.
var (
	ErrInvalidHost           = errors.New("Please enter a valid GitHub URL")             //nolint:staticcheck // user-facing text
	ErrInvalidURL            = errors.New("Invalid URL")                                 //nolint:staticcheck // user-facing text
	ErrInvalidRepositoryPath = errors.New("Please enter a valid GitHub repository URL") //nolint:staticcheck // user-facing text
	ErrMalformedReadmeURL    = errors.New("Invalid README URL format")                   //nolint:staticcheck // user-facing text
)

// Credential errors.
var (
	ErrAPIKeyMissing = errors.New("OpenAI API key not found. Please set your API key in the settings.") //nolint:staticcheck // user-facing text
	ErrInvalidAPIKey = errors.New("Invalid API key. Please check your settings.")                       //nolint:staticcheck // user-facing text
	ErrAPIKeyFormat  = errors.New("invalid API key format: must start with 'sk-' and be longer than 20 characters")
)

// Chat errors.
var (
	ErrEmptyQuery  = errors.New("query cannot be empty")
	ErrQueryFailed = errors.New("query processing failed")
)

// General domain errors.
var (
	ErrInvalidInput = errors.New("invalid input")
)
