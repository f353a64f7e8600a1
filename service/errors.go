package service

import "errors"

// Every failed submission wraps exactly one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("previous transaction still in progress")
	ErrBadRequest = errors.New("payment api rejected input")
	ErrServer     = errors.New("payment api error")
	ErrTransport  = errors.New("payment api unreachable")
)

const (
	MsgSuccess       = "Payment successful!"
	MsgConflict      = "Previous transaction delivery not complete for this location. Please wait."
	MsgBadRequest    = "Invalid input. Please check data."
	MsgFailed        = "Payment failed. Please try again."
	MsgNetwork       = "Network Error: Could not reach server. Check connection or CORS policy."
	MsgInvalidAmount = "Please enter a valid positive amount."
	MsgUnknownPlace  = "Unknown location."
)

// Result is the outcome of one submission. Message is always set and is
// meant to be shown to the user as is.
type Result struct {
	Message string
	Err     error
}

func (r Result) Success() bool {
	return r.Err == nil
}
