package gsm

import (
	"fmt"

	"github.com/pkg/errors"
)

// API errors returned synchronously by the public methods on Modem.
var (
	// ErrInvalidArgument indicates a precondition on an argument was violated,
	// such as an APN that is empty or too long.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoDevice indicates the call was made while the modem is in Reset.
	ErrNoDevice = errors.New("no device")
	// ErrNetUnreachable indicates the call requires network registration
	// which has not yet occurred.
	ErrNetUnreachable = errors.New("network unreachable")
	// ErrNotConnected indicates the call requires GPRS attach which has not
	// yet completed.
	ErrNotConnected = errors.New("not connected")
	// ErrNotSocket indicates the call requires an open socket.
	ErrNotSocket = errors.New("not a socket")
	// ErrAlreadyInProgress indicates a duplicate of an operation already
	// under way.
	ErrAlreadyInProgress = errors.New("already in progress")
	// ErrAddressInUse indicates connect() was called while a socket is
	// already open.
	ErrAddressInUse = errors.New("address in use")
	// ErrBusy indicates the call was made during a transient operation that
	// must complete first.
	ErrBusy = errors.New("busy")
	// ErrBufferFull indicates the command queue has no free slots.
	ErrBufferFull = errors.New("command buffer full")
	// ErrPayloadTooLarge indicates a command payload exceeds the configured
	// buffer size.
	ErrPayloadTooLarge = errors.New("command payload too large")
	// ErrOutOfMemory indicates a command could not be allocated.
	ErrOutOfMemory = errors.New("out of memory")
)

// CMEError indicates the modem returned a "+CME ERROR: n" line. The value is
// the numeric error code reported by the modem.
type CMEError int

func (e CMEError) Error() string {
	return fmt.Sprintf("CME error: %d", int(e))
}
