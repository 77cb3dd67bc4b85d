package gsm

import "fmt"

// poll issues the periodic command appropriate to the current state when no
// command is in flight and the poll interval has elapsed.
func (m *Modem) poll(now uint32) {
	switch m.state {
	case Reset, Ready:
		m.queue.push(newCommand("", resetTimeout))

	case Searching, Registered, Online:
		cmd := newCommand("+CSQ", registrationTimeout)
		cmd.add("+CREG?").add("+CGREG?").add("+CEREG?").add("+CGATT?")
		m.queue.push(cmd)

	case Authenticating:
		m.queue.push(newCommand("+CIFSR", cifsrTimeout))
		m.cifsrFlag = true

	case Open:
		m.pollSocket()

	case Handshaking, Error, Closing:
		// No poll in these states.
	}
}

// pollSocket services a pending receive or send transfer, or else refreshes
// signal/credit readings, while the socket sub-state is Command.
func (m *Modem) pollSocket() {
	rxRequested := m.rx.requested()
	txRequested := m.tx.requested()

	switch {
	case rxRequested > 0 && m.status.RxAvailable > 0:
		m.socketReceive(rxRequested)
	case txRequested > 0 && m.status.TxAvailable > 0:
		m.socketSend(m.tx.buf[m.tx.index:], txRequested)
	default:
		cmd := newCommand("+CSQ", socketPollTimeout)
		cmd.add("+CIPRXGET=4").add("+CIPSEND?")
		m.queue.push(cmd)
	}
}

// socketMax is the largest receive/send chunk the wire framing can carry in
// a single exchange, leaving room for the response header.
func (m *Modem) socketMax() int {
	max := m.opts.bufferSize - socketOverhead
	if max < 0 {
		max = 0
	}
	return max
}

// socketReceive issues "+CIPRXGET=2,<n>" for up to size bytes, bounded by
// the modem's reported availability and the wire framing ceiling.
func (m *Modem) socketReceive(size int) error {
	if m.sockState != SocketCommand {
		return ErrBusy
	}
	n := size
	if max := m.socketMax(); n > max {
		n = max
	}
	if n > m.status.RxAvailable {
		n = m.status.RxAvailable
	}
	if n <= 0 {
		return nil
	}
	return m.queue.push(newCommand(fmt.Sprintf("+CIPRXGET=2,%d", n), m.opts.commandTimeout))
}

// socketSend issues "+CIPSEND=<n>" for up to size bytes of data, followed by
// a raw-payload command that writes the bytes once the send prompt arrives.
func (m *Modem) socketSend(data []byte, size int) error {
	if m.sockState != SocketCommand {
		return ErrBusy
	}
	n := size
	if max := m.socketMax(); n > max {
		n = max
	}
	if n > m.status.TxAvailable {
		n = m.status.TxAvailable
	}
	if n <= 0 {
		return nil
	}
	if err := m.queue.push(newCommand(fmt.Sprintf("+CIPSEND=%d", n), socketPollTimeout)); err != nil {
		return err
	}
	m.sockState = SocketSend
	return m.queue.push(newRawCommand(data[:n], socketSendTimeout))
}
