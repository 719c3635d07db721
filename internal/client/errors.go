package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is reported for any 401 response. The session is considered
// invalid as a whole: the stored token is cleared before the error is
// returned, and callers should send the user back to login.
var ErrUnauthorized = errors.New("session invalid")

// ErrMissingInvoiceNumber is returned when a duplicate request lacks the
// identifiers it needs. The request is rejected before any network call.
var ErrMissingInvoiceNumber = errors.New("invoice number is required")

// APIError is any non-2xx response from the remote API. The message embeds
// the HTTP status and the response body text.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}
