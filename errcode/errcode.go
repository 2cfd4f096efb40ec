package errcode

// Code is a stable, caller-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Block layer
	NotInitialized Code = "not_initialized" // card init failed or never ran
	TransferError  Code = "transfer_error"  // short read/write, count mismatch
	ParamError     Code = "param_error"     // unrecognized ioctl code or argument
	Timeout        Code = "timeout"         // polling bound exhausted

	// Serial layer
	NoData      Code = "no_data"      // non-blocking receive, line idle
	InvalidConn Code = "invalid_conn" // malformed connection string
	UnknownPin  Code = "unknown_pin"
	UnknownDev  Code = "unknown_dev" // no driver registered for prefix

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
