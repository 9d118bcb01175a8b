package handlers

import "github.com/danielgtaylor/huma/v2"

// StatusError is the wire format for every API error: a human-readable
// message plus, for setup validation, the individual problems found.
type StatusError struct {
	status  int
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (e *StatusError) Error() string {
	return e.Message
}

func (e *StatusError) GetStatus() int {
	return e.status
}

// NewStatusError builds a StatusError carrying detail strings.
func NewStatusError(status int, message string, details ...string) *StatusError {
	return &StatusError{status: status, Message: message, Errors: details}
}

func init() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		details := make([]string, 0, len(errs))
		for _, err := range errs {
			if err != nil {
				details = append(details, err.Error())
			}
		}

		return &StatusError{status: status, Message: message, Errors: details}
	}
}
