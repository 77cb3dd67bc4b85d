// Package gsm drives a GSM/GPRS modem over a byte-oriented serial link to
// bring up a single TCP socket using the modem's AT command set.
//
// The driver is non-blocking and single-threaded: it takes no locks and
// spawns no goroutines. The host calls Process repeatedly on one goroutine;
// every exported method must be called from that same goroutine, or the
// host must serialize access itself.
package gsm

// Modem walks a GSM/GPRS modem from power-on through SIM unlock, network
// registration, GPRS attach, TCP connect and byte-stream transfer.
type Modem struct {
	opts      options
	transport Transport

	queue  *cmdQueue
	parser *parser

	state     State
	nextState State
	sockState SocketState

	status    Status
	cifsrFlag bool

	commandDeadline uint32
	updateDeadline  uint32
	resetDeadline   uint32
	resetPending    bool

	rx transfer
	tx transfer

	modemRxPending int

	readBuf []byte
}

// transfer is a borrowed user buffer for a receive or send in progress.
type transfer struct {
	buf   []byte
	index int
}

func (t transfer) busy() bool {
	return t.buf != nil && t.index < len(t.buf)
}

func (t transfer) requested() int {
	if t.buf == nil {
		return 0
	}
	return len(t.buf) - t.index
}

// New creates a Modem that drives transport. The modem starts in Reset;
// call Reset (or simply wait: Process will issue the reset sequence once
// the ready timeout expires) to begin bringing it up.
func New(transport Transport, opts ...Option) *Modem {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m := &Modem{
		opts:      o,
		transport: transport,
		queue:     newCmdQueue(o.queueCapacity, o.bufferSize),
		readBuf:   make([]byte, o.bufferSize),
	}
	m.parser = newParser(o.bufferSize, m.onUnit)
	return m
}

// State returns the modem's current lifecycle state.
func (m *Modem) State() State {
	return m.state
}

// Status returns a copy of the modem's last-known readings.
func (m *Modem) Status() Status {
	return m.status
}

// Registered reports whether the modem has progressed at least as far as
// network registration.
func (m *Modem) Registered() bool { return m.state.Registered() }

// Authenticating reports whether GPRS attach is in progress.
func (m *Modem) Authenticating() bool { return m.state.Authenticating() }

// Online reports whether the modem has an active PDP context.
func (m *Modem) Online() bool { return m.state.Online() }

// Handshaking reports whether a TCP connect is in progress.
func (m *Modem) Handshaking() bool { return m.state.Handshaking() }

// Closing reports whether a socket close is in progress.
func (m *Modem) Closing() bool { return m.state.Closing() }

// Connected reports whether a TCP socket is open.
func (m *Modem) Connected() bool { return m.state.Connected() }

// RxAvailable returns the modem's last-reported count of unread socket
// bytes.
func (m *Modem) RxAvailable() int { return m.status.RxAvailable }

// TxAvailable returns the modem's last-reported send-buffer credit.
func (m *Modem) TxAvailable() int { return m.status.TxAvailable }

// RxBusy reports whether a receive transfer is in progress.
func (m *Modem) RxBusy() bool { return m.state.Connected() && m.rx.busy() }

// TxBusy reports whether a send transfer is in progress.
func (m *Modem) TxBusy() bool { return m.state.Connected() && m.tx.busy() }

// RxCount returns the number of bytes written into the receive buffer so
// far.
func (m *Modem) RxCount() int { return m.rx.index }

// TxCount returns the number of bytes consumed from the send buffer so far.
func (m *Modem) TxCount() int { return m.tx.index }

// Process drains available input from the transport into the parser,
// advances the command queue, and issues periodic polling commands. It
// returns promptly: at most one command is dispatched and at most one
// buffer's worth of bytes is read per call.
func (m *Modem) Process() {
	now := m.transport.Milliseconds()

	if m.nextState != m.state {
		m.updateDeadline = deadlineAfter(now, m.opts.pollInterval)
		m.state = m.nextState
		m.emitState(m.state)
	}

	switch {
	case m.queue.busy():
		n, err := m.transport.Read(m.readBuf)
		if err == nil && n > 0 {
			m.parser.load(m.readBuf[:n])
		} else if elapsed(now, m.commandDeadline) {
			m.handleTimeout()
		}
	case len(m.queue.items) > 0:
		m.dispatch(now)
	case elapsed(now, m.updateDeadline):
		m.updateDeadline = deadlineAfter(now, m.opts.pollInterval)
		m.poll(now)
	}

	if m.state == Reset {
		if !m.resetPending {
			m.resetDeadline = deadlineAfter(now, m.opts.readyTimeout)
			m.resetPending = true
		} else if elapsed(now, m.resetDeadline) {
			m.Reset()
		}
	} else {
		m.resetPending = false
	}
}

func (m *Modem) dispatch(now uint32) {
	cmd := m.queue.dispatch()
	m.transport.Write(cmd.payload)
	m.commandDeadline = deadlineAfter(now, cmd.timeout)
}

func (m *Modem) transitionTo(s State) {
	m.nextState = s
}

func (m *Modem) emitState(s State) {
	if m.opts.onState != nil {
		m.opts.onState(s)
	}
}

func (m *Modem) emitEvent(e Event) {
	if m.opts.onEvent != nil {
		m.opts.onEvent(e)
	}
}

func (m *Modem) emitError(code int) {
	if m.opts.onError != nil {
		m.opts.onError(CMEError(code))
	}
}

// handleTimeout frees the in-flight command on expiry and applies the
// per-state recovery policy from the device state machine.
func (m *Modem) handleTimeout() {
	ignored := m.queue.inFlight != nil && string(m.queue.inFlight.payload) == "AT\r" // bare ping
	m.queue.complete()
	if ignored {
		return
	}

	switch m.state {
	case Reset, Ready:
	case Authenticating:
		m.transitionTo(Registered)
		m.emitEvent(EventAuthError)
	case Handshaking:
		m.transitionTo(Online)
		m.emitEvent(EventConnError)
	case Open:
		m.sockState = SocketCommand
		m.emitEvent(EventSockError)
	case Closing:
		m.transitionTo(Online)
	default:
		m.emitEvent(EventTimeout)
	}
}
