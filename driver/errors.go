package driver

import "github.com/pkg/errors"

// Error is the service error taxonomy's sentinel struct type, matching
// the teacher's plain-value error style
// (garnet/go/src/netstack/filter/errors.go: type Error struct{ Msg string }
// compared with errors.Is). Callers switch on the package-level
// sentinels below, never on Error's fields.
type Error struct{ Msg string }

func (e Error) Error() string { return e.Msg }

var (
	ErrAlreadyInitialized = Error{Msg: "driver: already initialized"}
	ErrNotInitialized     = Error{Msg: "driver: not initialized"}
	ErrNotFound           = Error{Msg: "driver: not found"}
	ErrAlreadyExists      = Error{Msg: "driver: already exists"}
	ErrInUse              = Error{Msg: "driver: in use"}
	ErrInvalidArgument    = Error{Msg: "driver: invalid argument"}
	ErrResourceExhausted  = Error{Msg: "driver: resource exhausted"}
)

// DeviceError wraps an underlying native-runtime failure with
// call-site context, using github.com/pkg/errors so the original cause
// survives for %+v logging and errors.Cause.
type DeviceError struct {
	Op   string
	Port int
	err  error
}

func (e *DeviceError) Error() string {
	return errors.Wrapf(e.err, "driver: device error: %s(port=%d)", e.Op, e.Port).Error()
}

func (e *DeviceError) Unwrap() error { return e.err }

func wrapDeviceError(op string, port int, err error) error {
	if err == nil {
		return nil
	}
	return &DeviceError{Op: op, Port: port, err: errors.WithStack(err)}
}
