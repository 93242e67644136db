package roblox

import (
	"encoding/json"
	"strings"
)

// UnknownErrorMessage is reported when a failed response carries no error messages.
const UnknownErrorMessage = "An unknown error has occurred."

// RemoteError is returned when the remote API answers with a non-success status.
type RemoteError struct {
	StatusCode int
	Messages   []string
}

func (e *RemoteError) Error() string {
	msg := strings.Join(e.Messages, "\n")
	if msg == "" {
		return UnknownErrorMessage
	}
	return msg
}

type errorBody struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// newRemoteError builds a RemoteError from a failed response. A body that is
// not the usual error envelope yields the generic message.
func newRemoteError(resp *Response) *RemoteError {
	rerr := &RemoteError{StatusCode: resp.StatusCode}

	var body errorBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return rerr
	}
	for _, e := range body.Errors {
		rerr.Messages = append(rerr.Messages, e.Message)
	}
	return rerr
}
