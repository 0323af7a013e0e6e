package domain

import "errors"

var (
	// ErrDocumentUnavailable is returned when the page document cannot be read
	// (wrong page, tab navigated away, browser unreachable). It is distinct
	// from an extraction that simply found zero items.
	ErrDocumentUnavailable = errors.New("document unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoPeople is returned when a split session is created without people
	ErrNoPeople = errors.New("at least one person is required")

	// ErrDuplicatePerson is returned when the people list repeats a name
	ErrDuplicatePerson = errors.New("duplicate person")

	// ErrUnknownPerson is returned when an edit names someone outside the session
	ErrUnknownPerson = errors.New("person is not part of this split")

	// ErrItemNotFound is returned when an item index is out of range
	ErrItemNotFound = errors.New("item not found")

	// ErrSessionNotFound is returned when a split session does not exist or expired
	ErrSessionNotFound = errors.New("split session not found")

	// ErrNegativeTaxRate is returned when a tax rate below zero is supplied
	ErrNegativeTaxRate = errors.New("tax rate must not be negative")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrBrowserNotConfigured is returned when live extraction is requested
	// without a DevTools endpoint
	ErrBrowserNotConfigured = errors.New("browser debugger URL not configured")
)
