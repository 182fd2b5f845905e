package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Transport failures are classified into one of
// these so the presentation layer can react without inspecting HTTP statuses.
var (
	// ErrAuth covers bad credentials and expired or missing tokens.
	ErrAuth = errors.New("authentication failed")
	// ErrValidation covers malformed input, locally or as reported by the server.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when the referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTransport covers network failures and non-2xx responses with no decodable body.
	ErrTransport = errors.New("transport failure")
)

var (
	// ErrInvalidInput is a validation failure raised by the scoring helpers.
	ErrInvalidInput = fmt.Errorf("invalid input: %w", ErrValidation)
	// ErrEmptySelection is returned when a category or subcategory is missing.
	ErrEmptySelection = fmt.Errorf("category and subcategory are required: %w", ErrValidation)
)

var (
	// ErrTransitionNotAllowed is returned when an event is not valid in the current quiz state.
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	// ErrSubmitInFlight is returned when a submission is already awaiting a response.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrStaleResponse is returned when a response arrives for a quiz session that was abandoned.
	ErrStaleResponse = errors.New("response belongs to an abandoned session")
	// ErrQuestionNotFound indicates an answered question ID is not part of the loaded test.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoSession is returned when no credential is stored for the active profile.
	ErrNoSession = errors.New("no stored session, log in first")
)
