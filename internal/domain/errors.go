package domain

import "errors"

var (
	// ErrPullRequestOrder is returned when the API does not list pull requests newest first,
	// which the start-date cut-off relies on.
	ErrPullRequestOrder = errors.New("pull requests are not ordered by creation time descending")

	// ErrMissingOrganization indicates no organization login was configured.
	ErrMissingOrganization = errors.New("organization is not set")

	// ErrMissingToken indicates no GitHub access token was configured.
	ErrMissingToken = errors.New("github token is not set")

	// ErrInvalidDateRange indicates an unparsable date or a start date after the end date.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidDelay indicates a negative pause between page requests.
	ErrInvalidDelay = errors.New("delays must not be negative")

	// ErrUnknownFormat indicates an unsupported export format.
	ErrUnknownFormat = errors.New("unknown output format")
)
