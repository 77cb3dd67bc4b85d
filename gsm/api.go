package gsm

import "fmt"

// maxAPNLen is the longest APN this driver will accept; longer values would
// overflow the fixed-size command buffer used to build the CSTT/CGDCONT
// directives.
const maxAPNLen = 63

// Reset clears the command queue and cached status, enqueues "+CFUN=1,1",
// and transitions to Reset. It is unconditional - it can be called from any
// state - and is idempotent: calling it twice in a row leaves the queue
// holding just the one "+CFUN=1,1" command, the state Reset, and the status
// cleared (CSQ reads 99, unknown) either way.
func (m *Modem) Reset() error {
	m.queue.clear()

	if err := m.queue.push(newCommand("+CFUN=1,1", resetTimeout)); err != nil {
		return err
	}

	m.status = Status{CSQ: 99}
	m.StopSend()
	m.StopReceive()

	m.transitionTo(Reset)
	m.resetPending = false
	return nil
}

// Configure sets the preferred radio access technology and PDP context APN,
// and begins network registration. It requires the modem to have left
// Reset. mode is the "+CNMP" preferred mode; pass 0 to use the default (38,
// LTE).
func (m *Modem) Configure(apn string, mode int) error {
	if apn == "" || len(apn) > maxAPNLen {
		return ErrInvalidArgument
	}
	if m.nextState == Reset {
		return ErrNoDevice
	}
	if mode == 0 {
		mode = 38
	}

	cmd := newCommand("+CMEE=1", configureTimeout)
	cmd.add(fmt.Sprintf("+CNMP=%d", mode))
	cmd.add(fmt.Sprintf("+CGDCONT=1,\"IP\",\"%s\"", apn))
	if err := m.queue.push(cmd); err != nil {
		return err
	}

	m.transitionTo(Searching)
	return nil
}

// Authenticate brings up the GPRS PDP context for apn, with optional user
// and password. It requires the modem to be Registered or already Online
// (re-authenticating a dropped context).
func (m *Modem) Authenticate(apn, user, pwd string) error {
	if apn == "" {
		return ErrInvalidArgument
	}

	switch m.nextState {
	case Reset:
		return ErrNoDevice
	case Ready, Error, Searching:
		return ErrNetUnreachable
	case Authenticating:
		return ErrAlreadyInProgress
	case Handshaking, Open, Closing:
		return ErrBusy
	}

	cmd := newCommand("+CIPSHUT", authStartTimeout)
	cmd.add("+CIPMUX=0").add("+CIPRXGET=1").add("+CIPATS=1,1")
	switch {
	case user == "":
		cmd.add(fmt.Sprintf("+CSTT=\"%s\"", apn))
	case pwd == "":
		cmd.add(fmt.Sprintf("+CSTT=\"%s\",\"%s\"", apn, user))
	default:
		cmd.add(fmt.Sprintf("+CSTT=\"%s\",\"%s\",\"%s\"", apn, user, pwd))
	}
	if err := m.queue.push(cmd); err != nil {
		return err
	}
	if err := m.queue.push(newCommand("+CIICR", cIICRTimeout)); err != nil {
		return err
	}

	m.transitionTo(Authenticating)
	return nil
}

// Connect opens a TCP socket to host:port. It requires the modem to be
// Online (authenticated but not yet connected).
func (m *Modem) Connect(host string, port int) error {
	if host == "" || port == 0 {
		return ErrInvalidArgument
	}

	switch m.nextState {
	case Reset:
		return ErrNoDevice
	case Ready, Error, Searching:
		return ErrNetUnreachable
	case Registered, Authenticating:
		return ErrNotConnected
	case Handshaking:
		return ErrAlreadyInProgress
	case Open:
		return ErrAddressInUse
	case Closing:
		return ErrBusy
	}

	cmd := newCommand(fmt.Sprintf("+CIPSTART=\"TCP\",\"%s\",%d", host, port), connectTimeout)
	if err := m.queue.push(cmd); err != nil {
		return err
	}

	m.transitionTo(Handshaking)
	return nil
}

// Close begins closing the open TCP socket. If quick is true, the socket is
// torn down immediately with "+CIPCLOSE=1"; otherwise the driver waits for
// the server to acknowledge the close with "+CIPCLOSE".
func (m *Modem) Close(quick bool) error {
	switch m.nextState {
	case Reset:
		return ErrNoDevice
	case Ready, Error, Searching:
		return ErrNetUnreachable
	case Registered, Authenticating, Online, Handshaking:
		return ErrNotSocket
	case Closing:
		return ErrAlreadyInProgress
	}

	var cmd *command
	if quick {
		cmd = newCommand("+CIPCLOSE=1", m.opts.commandTimeout)
	} else {
		cmd = newCommand("+CIPCLOSE", closeTimeout)
	}
	if err := m.queue.push(cmd); err != nil {
		return err
	}

	m.transitionTo(Closing)
	return nil
}

// Receive attaches buf as the destination for the next socket receive
// transfer, replacing any buffer previously attached. Bytes accumulate into
// buf as RxCount; RxComplete fires once buf is full.
func (m *Modem) Receive(buf []byte) {
	m.rx = transfer{buf: buf}
}

// StopReceive detaches the receive buffer. If a transfer was in progress,
// RxComplete fires first, while RxCount still reports the partial count, so
// the caller observes the abort; the buffer is detached after the event.
func (m *Modem) StopReceive() {
	if m.rx.busy() {
		m.emitEvent(EventRxComplete)
	}
	m.rx = transfer{}
}

// Send attaches buf as the source for the next socket send transfer,
// replacing any buffer previously attached. Bytes are consumed from buf as
// TxCount advances; TxComplete fires once buf is fully drained.
func (m *Modem) Send(buf []byte) {
	m.tx = transfer{buf: buf}
}

// StopSend detaches the send buffer. If a transfer was in progress,
// TxComplete fires first, while TxCount still reports the partial count, so
// the caller observes the abort; the buffer is detached after the event.
func (m *Modem) StopSend() {
	if m.tx.busy() {
		m.emitEvent(EventTxComplete)
	}
	m.tx = transfer{}
}
