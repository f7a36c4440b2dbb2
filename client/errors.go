package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/P8labs/foxctl/model"
)

var errEmptyBaseURL = errors.New("api base url cannot be empty")

// APIError is returned for every non-2xx response. Body holds the raw
// response text, unparsed.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %v", e.Status, e.Body)
}

// StatusCode returns the HTTP status of err if it is an *APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// ErrorResponse parses the body of an *APIError as the daemon's error
// document. It reports false for other errors and for bodies that are not
// one, such as proxy error pages.
func ErrorResponse(err error) (model.ErrorResponse, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return model.ErrorResponse{}, false
	}

	var resp model.ErrorResponse
	if json.Unmarshal([]byte(apiErr.Body), &resp) != nil || resp.Error == "" {
		return model.ErrorResponse{}, false
	}
	return resp, true
}
