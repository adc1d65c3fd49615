package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
)

// ErrNotFound is returned when a record does not exist or its id cannot be
// a valid backend id.
var ErrNotFound = errors.New("record not found")

// GenericMessage is shown when the server reports a failure without a
// message.
const GenericMessage = "Something went wrong. Please try again."

// unreachableMessage is shown when the request never got a response.
const unreachableMessage = "Could not reach the server. Check your connection and try again."

// Error is a failed gateway call. Field is set when the failure could be
// attributed to a single record field.
type Error struct {
	Status  int
	Message string
	Field   string
	Code    string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FieldName returns the field the error is attributed to, or "".
func (e *Error) FieldName() string {
	return e.Field
}

// errorBody is the error envelope. Errors is the structured form some
// endpoints return; most return only Message.
type errorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// errorFromResponse builds an *Error from a non-2xx response body.
func errorFromResponse(status int, body []byte) error {
	if status == http.StatusNotFound {
		return ErrNotFound
	}

	e := &Error{Status: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		e.Message = strings.TrimSpace(eb.Message)
		if len(eb.Errors) > 0 {
			first := eb.Errors[0]
			e.Field = first.Field
			e.Code = first.Code
			if e.Message == "" {
				e.Message = first.Message
			}
		}
	}
	if e.Message == "" {
		e.Message = GenericMessage
	}
	if e.Field == "" {
		e.Field = classifyMessage(e.Message)
	}
	return e
}

// messagePatterns attributes free-text server messages to fields. The
// backend has no stable error codes, so this list is matched against
// wording it currently uses and will miss anything else.
var messagePatterns = []struct {
	field string
	re    *regexp.Regexp
}{
	{"email", regexp.MustCompile(`(?i)\bemail\b.*\b(exists|taken|already|used)\b`)},
	{"plateNumber", regexp.MustCompile(`(?i)\b(plate|matricule)\b.*\b(exists|taken|already|used)\b`)},
	{"licenseNumber", regexp.MustCompile(`(?i)\blicen[cs]e\b.*\b(exists|taken|already|used)\b`)},
	{"vehicleId", regexp.MustCompile(`(?i)\bvehicle\b.*\b(not available|unavailable|already (booked|reserved|rented))\b`)},
}

// classifyMessage returns the field a server message refers to, or "".
func classifyMessage(msg string) string {
	for _, p := range messagePatterns {
		if p.re.MatchString(msg) {
			return p.field
		}
	}
	return ""
}
