package models

import "fmt"

const defaultUnsupportedMessage = "Transaction type not supported for this payment method."

// ApiError is the generic failure raised by the library, optionally wrapping a cause.
type ApiError struct {
	Message string
	Err     error
}

func NewApiError(message string, err error) *ApiError {
	return &ApiError{Message: message, Err: err}
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ApiError) Unwrap() error { return e.Err }

// BuilderError is returned before any network activity when a builder is
// incomplete or inconsistent.
type BuilderError struct {
	Message string
}

func NewBuilderError(format string, args ...interface{}) *BuilderError {
	return &BuilderError{Message: fmt.Sprintf(format, args...)}
}

func (e *BuilderError) Error() string { return e.Message }

type ConfigurationError struct {
	Message string
}

func NewConfigurationError(message string) *ConfigurationError {
	return &ConfigurationError{Message: message}
}

func (e *ConfigurationError) Error() string { return e.Message }

// GatewayError carries the remote response code and message when the gateway
// rejects a request or cannot be reached.
type GatewayError struct {
	Message         string
	ResponseCode    string
	ResponseMessage string
	Err             error
}

func NewGatewayError(message string, err error) *GatewayError {
	return &GatewayError{Message: message, Err: err}
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error { return e.Err }

type UnsupportedTransactionError struct {
	Message string
}

func NewUnsupportedTransactionError(message string) *UnsupportedTransactionError {
	if message == "" {
		message = defaultUnsupportedMessage
	}
	return &UnsupportedTransactionError{Message: message}
}

func (e *UnsupportedTransactionError) Error() string { return e.Message }
