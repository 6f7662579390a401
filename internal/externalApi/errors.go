// Package externalApi defines the failure taxonomy shared by outbound API
// clients. Every failed call resolves to exactly one ApiError kind.
package externalApi

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindNotAuthenticated: no valid session, the call never left the client.
	KindNotAuthenticated ErrorKind = iota + 1
	// KindServerRejected: the backend explicitly refused the operation and
	// returned a structured error body.
	KindServerRejected
	// KindNetwork: transport failure, no response received.
	KindNetwork
	// KindUnknown: a response arrived but its body is not the structured
	// error shape. Treated like a network failure for user messaging.
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindServerRejected:
		return "server_rejected"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

type ApiError struct {
	Kind    ErrorKind
	Code    string // backend errorCode, set for KindServerRejected only
	Message string
}

func (e *ApiError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error (%s, code=%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("api error (%s): %s", e.Kind, e.Message)
}

func NotAuthenticated() *ApiError {
	return &ApiError{Kind: KindNotAuthenticated, Message: "not signed in"}
}

func NetworkFailure(err error) *ApiError {
	return &ApiError{Kind: KindNetwork, Message: err.Error()}
}

func ServerRejected(code, message string) *ApiError {
	return &ApiError{Kind: KindServerRejected, Code: code, Message: message}
}

func Unknown(rawBody string) *ApiError {
	return &ApiError{Kind: KindUnknown, Message: rawBody}
}

// KindOf extracts the classification from any error chain; zero when err is
// not an ApiError.
func KindOf(err error) ErrorKind {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}
