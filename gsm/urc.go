package gsm

import "bytes"

// parseURC recognises unsolicited result codes, which may arrive in any
// state and are processed before any state-specific handler. It returns
// true if the unit was a recognised URC, short-circuiting further parsing.
func (m *Modem) parseURC(unit []byte) bool {
	switch {
	case bytes.HasPrefix(unit, []byte("+CME ERROR:")):
		code, _ := leadingInt(bytes.TrimLeft(unit[len("+CME ERROR:"):], " "))
		m.emitError(code)
		return true

	case bytes.HasPrefix(unit, []byte("+CPIN: ")):
		rest := unit[len("+CPIN: "):]
		switch {
		case bytes.HasPrefix(rest, []byte("READY\r")):
			if m.state.rank() < Searching.rank() {
				m.transitionTo(Ready)
			}
		case bytes.HasPrefix(rest, []byte("NOT INSERTED\r")):
			m.emitEvent(EventSimError)
			m.transitionTo(Error)
		}
		return true

	case bytes.HasPrefix(unit, []byte("+CFUN: ")):
		cfun, _ := leadingInt(unit[len("+CFUN: "):])
		m.status.CFUN = cfun
		if cfun != 1 {
			m.transitionTo(Error)
		}
		return true

	case bytes.HasPrefix(unit, []byte("+PDP: DEACT\r")):
		if m.state.rank() > Registered.rank() {
			m.transitionTo(Registered)
		}
		return true
	}
	return false
}

// parseGeneral updates cached registration/signal readings from any line
// that matches, then derives the Searching/Registered edge transition. It
// runs in every state, after any state-specific handler, on every unit that
// onUnit has not already consumed as an echoed command line or a URC.
func (m *Modem) parseGeneral(unit []byte) {
	switch {
	case bytes.HasPrefix(unit, []byte("+CSQ: ")):
		if n, ok := leadingInt(unit[len("+CSQ: "):]); ok {
			m.status.CSQ = n
		}
	case bytes.HasPrefix(unit, []byte("+CREG: ")):
		if f := fieldAfterComma(unit); f != nil {
			if n, ok := leadingInt(f); ok {
				m.status.CREG = n
			}
		}
	case bytes.HasPrefix(unit, []byte("+CGREG: ")):
		if f := fieldAfterComma(unit); f != nil {
			if n, ok := leadingInt(f); ok {
				m.status.CGREG = n
			}
		}
	case bytes.HasPrefix(unit, []byte("+CEREG: ")):
		if f := fieldAfterComma(unit); f != nil {
			if n, ok := leadingInt(f); ok {
				m.status.CEREG = n
			}
		}
	case bytes.HasPrefix(unit, []byte("+CGATT: ")):
		if n, ok := leadingInt(unit[len("+CGATT: "):]); ok {
			m.status.CGATT = n
		}
	}

	if m.status.registered() {
		if m.state.rank() < Registered.rank() {
			m.transitionTo(Registered)
		}
	} else if m.state.rank() >= Registered.rank() {
		m.transitionTo(Searching)
	}
}
