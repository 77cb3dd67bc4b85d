package gsm

// State is the lifecycle state of the modem, ordered so that the rank of a
// state determines the predicates derived from it (Registered, Online, and
// so on). Do not rely on the underlying integer values directly; use rank
// for ordering comparisons, since states may be renumbered.
type State int

// Device lifecycle states, in the order the modem progresses through them.
const (
	Reset State = iota
	Ready
	Error
	Searching
	Registered
	Authenticating
	Online
	Handshaking
	Open
	Closing
)

var stateNames = map[State]string{
	Reset:          "reset",
	Ready:          "ready",
	Error:          "error",
	Searching:      "searching",
	Registered:     "registered",
	Authenticating: "authenticating",
	Online:         "online",
	Handshaking:    "handshaking",
	Open:           "open",
	Closing:        "closing",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// rank returns the relative ordering of a state. States with a higher rank
// are later in the modem's lifecycle. Error sits between Ready and
// Searching: it is reachable from any state but does not itself gate the
// predicates below, since a modem in Error is not mid-lifecycle progress.
func (s State) rank() int {
	return int(s)
}

// Registered reports whether the modem has progressed at least as far as
// network registration.
func (s State) Registered() bool {
	return s.rank() >= Registered.rank()
}

// Authenticating reports whether the modem is attempting GPRS attach.
func (s State) Authenticating() bool {
	return s == Authenticating
}

// Online reports whether the modem has an active PDP context.
func (s State) Online() bool {
	return s.rank() >= Online.rank()
}

// Handshaking reports whether a TCP connect is in progress.
func (s State) Handshaking() bool {
	return s == Handshaking
}

// Closing reports whether a socket close is in progress.
func (s State) Closing() bool {
	return s == Closing
}

// Connected reports whether a TCP socket is open.
func (s State) Connected() bool {
	return s == Open
}

// SocketState is the sub-state of the socket command/response exchange,
// meaningful only while the device State is Open.
type SocketState int

// Socket sub-states.
const (
	SocketCommand SocketState = iota
	SocketReceive
	SocketSend
)

func (s SocketState) String() string {
	switch s {
	case SocketCommand:
		return "command"
	case SocketReceive:
		return "receive"
	case SocketSend:
		return "send"
	default:
		return "unknown"
	}
}
