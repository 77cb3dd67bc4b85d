package gsm

import "bytes"

// onUnit is the parser's unit callback: it discards echoed command lines,
// then runs the URC handler, then a state-specific handler, then the
// general status parser that runs regardless of state.
func (m *Modem) onUnit(unit []byte) {
	if bytes.HasPrefix(unit, []byte("AT")) {
		m.suppressEcho()
		return
	}

	if m.parseURC(unit) {
		return
	}

	switch m.state {
	case Authenticating:
		m.parseAuthenticating(unit)
	case Handshaking:
		m.parseHandshaking(unit)
	case Open:
		m.parseSocket(unit)
	case Closing:
		m.parseClosing(unit)
	default:
		switch {
		case bytes.HasPrefix(unit, []byte("OK\r")):
			// an OK to the bare "AT\r" ping while in Reset means the modem is up.
			if m.state == Reset && m.queue.inFlight != nil && string(m.queue.inFlight.payload) == "AT\r" {
				m.transitionTo(Ready)
			}
			m.queue.complete()
		case m.state == Reset && bytes.HasPrefix(unit, []byte("RDY\r")):
			m.transitionTo(Ready)
		}
	}

	m.parseGeneral(unit)
}

// suppressEcho queues an "E0" command, to disable command echo, each time a
// line starting with "AT" is observed outside Reset. Without this, a modem
// with echo enabled would feed every issued command line straight back
// through the parser as a spurious unit. It does not track whether an "E0"
// is already queued or has taken effect, so every echoed line seen before
// echo is off queues another one.
func (m *Modem) suppressEcho() {
	if m.state == Reset {
		return
	}
	m.queue.push(newCommand("E0", m.opts.commandTimeout))
}

func (m *Modem) parseAuthenticating(unit []byte) {
	switch {
	case bytes.HasPrefix(unit, []byte("OK\r")):
		m.queue.complete()
	case bytes.HasPrefix(unit, []byte("ERROR\r")):
		m.transitionTo(Registered)
		m.queue.complete()
		m.emitEvent(EventAuthError)
	case m.cifsrFlag:
		if ip, ok := dottedQuad(unit); ok {
			m.status.CIFSR = ip
			m.transitionTo(Online)
			m.queue.complete()
			m.cifsrFlag = false
		}
	}
}

func (m *Modem) parseHandshaking(unit []byte) {
	switch {
	case bytes.HasPrefix(unit, []byte("CONNECT OK\r")):
		m.sockState = SocketCommand
		m.transitionTo(Open)
		m.queue.complete()
	case bytes.HasPrefix(unit, []byte("ALREADY CONNECT\r")):
		m.transitionTo(Open)
		m.queue.complete()
	case bytes.HasPrefix(unit, []byte("CONNECT FAIL\r")):
		m.transitionTo(Online)
		m.emitEvent(EventConnError)
		m.queue.complete()
	}
}

func (m *Modem) parseClosing(unit []byte) {
	switch {
	case bytes.HasPrefix(unit, []byte("CLOSE OK")):
		m.transitionTo(Online)
		m.queue.complete()
	case bytes.HasPrefix(unit, []byte("ERROR\r")):
		m.transitionTo(Online)
		m.queue.complete()
	}
}

// parseSocket handles "TCP CLOSED" ahead of the sub-state dispatch, since a
// server-initiated close can arrive while a receive or send is mid-transfer,
// not only while the sub-state is idle at SocketCommand. It aborts any
// in-flight transfer and command, and drops the device back to Online.
func (m *Modem) parseSocket(unit []byte) {
	if bytes.HasPrefix(unit, []byte("TCP CLOSED\r")) {
		m.queue.complete()
		m.StopSend()
		m.StopReceive()
		m.sockState = SocketCommand
		m.transitionTo(Online)
		return
	}

	switch m.sockState {
	case SocketCommand:
		m.parseSocketCommand(unit)
	case SocketReceive:
		m.parseSocketReceive(unit)
	case SocketSend:
		m.parseSocketSend(unit)
	}
}

func (m *Modem) parseSocketCommand(unit []byte) {
	switch {
	case bytes.HasPrefix(unit, []byte("OK\r")):
		m.queue.complete()
	case bytes.HasPrefix(unit, []byte("ERROR\r")):
		m.queue.complete()
		m.emitEvent(EventSockError)
	case bytes.HasPrefix(unit, []byte("+CIPRXGET: 4,")):
		n, _ := leadingInt(unit[len("+CIPRXGET: 4,"):])
		if n > m.status.RxAvailable {
			m.emitEvent(EventNewData)
		}
		m.status.RxAvailable = n
	case bytes.HasPrefix(unit, []byte("+CIPRXGET: 2,")):
		n, _ := leadingInt(unit[len("+CIPRXGET: 2,"):])
		m.modemRxPending = n
		m.status.RxAvailable -= n
		m.sockState = SocketReceive
	case bytes.HasPrefix(unit, []byte("+CIPSEND: ")):
		if n, ok := leadingInt(unit[len("+CIPSEND: "):]); ok {
			m.status.TxAvailable = n
		}
	}
}

func (m *Modem) parseSocketReceive(unit []byte) {
	count := m.modemRxPending
	if count > len(unit) {
		count = len(unit)
	}
	m.modemRxPending -= count

	if m.rx.buf != nil && m.rx.index < len(m.rx.buf) {
		if count > len(m.rx.buf)-m.rx.index {
			count = len(m.rx.buf) - m.rx.index
		}
		copy(m.rx.buf[m.rx.index:], unit[:count])
		m.rx.index += count
		if m.rx.index == len(m.rx.buf) {
			m.emitEvent(EventRxComplete)
		}
	}

	if m.modemRxPending == 0 {
		m.sockState = SocketCommand
	}
}

func (m *Modem) parseSocketSend(unit []byte) {
	switch {
	case len(unit) == 1 && unit[0] == '>':
		m.queue.complete()
	case bytes.HasPrefix(unit, []byte("OK\r")):
		m.queue.complete()
	case bytes.HasPrefix(unit, []byte("ERROR\r")):
		m.queue.complete()
		m.emitEvent(EventSockError)
	case bytes.HasPrefix(unit, []byte("SEND OK\r")):
		count := 0
		if m.queue.inFlight != nil {
			count = m.queue.inFlight.size()
		}
		m.tx.index += count
		if m.tx.index == len(m.tx.buf) {
			m.emitEvent(EventTxComplete)
		}
		m.sockState = SocketCommand
		m.queue.complete()
	case bytes.HasPrefix(unit, []byte("SEND FAIL\r")):
		m.sockState = SocketCommand
		m.emitEvent(EventSockError)
		m.queue.complete()
	}
}
