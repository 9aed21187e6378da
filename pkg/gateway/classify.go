package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// RegistrationOutcome enumerates the results of a create-user call.
type RegistrationOutcome int

const (
	OutcomeFailed RegistrationOutcome = iota
	OutcomeRegistered
	OutcomeAlreadyExists
)

func (o RegistrationOutcome) String() string {
	switch o {
	case OutcomeRegistered:
		return "registered"
	case OutcomeAlreadyExists:
		return "already_exists"
	default:
		return "failed"
	}
}

// Registration is the result variant of a create-user call. Message is set
// for Registered and AlreadyExists, Reason for Failed.
type Registration struct {
	Outcome    RegistrationOutcome
	StatusCode int
	Message    string
	Reason     string
}

// LoggedIn reports whether the caller should treat the user as logged in.
// An existing registration counts.
func (r Registration) LoggedIn() bool {
	return r.Outcome == OutcomeRegistered || r.Outcome == OutcomeAlreadyExists
}

func Registered(message string) Registration {
	return Registration{Outcome: OutcomeRegistered, StatusCode: http.StatusOK, Message: message}
}

func AlreadyExists(message string) Registration {
	return Registration{Outcome: OutcomeAlreadyExists, StatusCode: http.StatusConflict, Message: message}
}

func Failed(status int, reason string) Registration {
	return Registration{Outcome: OutcomeFailed, StatusCode: status, Reason: reason}
}

type messageBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Classify maps a create-user response onto a Registration. 409 means the
// roll number is already registered and is a login, 2xx is a new
// registration, everything else failed.
func Classify(status int, body []byte) Registration {
	message := bodyMessage(body)
	switch {
	case status == http.StatusConflict:
		return AlreadyExists(message)
	case status >= 200 && status < 300:
		r := Registered(message)
		r.StatusCode = status
		return r
	}

	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = fmt.Sprintf("unexpected status %d", status)
	}
	return Failed(status, message)
}

func bodyMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var decoded messageBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(decoded.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(decoded.Error)
}
