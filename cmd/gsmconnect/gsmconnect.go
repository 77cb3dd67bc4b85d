// gsmconnect brings up a GPRS data context and a single TCP socket, then
// sends a fixed HTTP GET request to the remote host and prints the first
// bytes that come back.
//
// This serves as an example of driving the gsm.Modem state machine from a
// real serial port, including the repeated Process() calls a host
// application must make.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/dsb-iot/gsmmodem/gsm"
	"github.com/dsb-iot/gsmmodem/serial"
	"github.com/dsb-iot/gsmmodem/trace"
)

var version = "undefined"

type options struct {
	Device  string `short:"d" long:"device" default:"/dev/ttyUSB0" description:"path to modem device"`
	Baud    int    `short:"b" long:"baud" default:"115200" description:"baud rate"`
	APN     string `short:"a" long:"apn" default:"internet" description:"GPRS access point name"`
	User    string `short:"u" long:"user" description:"GPRS username"`
	Pass    string `short:"p" long:"pass" description:"GPRS password"`
	Host    string `short:"H" long:"host" default:"example.com" description:"remote host to connect to"`
	Port    int    `short:"P" long:"port" default:"80" description:"remote port to connect to"`
	Verbose bool   `short:"v" long:"verbose" description:"log modem interactions"`
	Version bool   `long:"version" description:"report version and exit"`
}

func main() {
	var o options
	if _, err := flags.Parse(&o); err != nil {
		return
	}
	if o.Version {
		fmt.Printf("%s %s\n", os.Args[0], version)
		os.Exit(0)
	}

	port, err := serial.New(o.Device, o.Baud)
	if err != nil {
		log.Println(err)
		return
	}
	defer port.Close()

	var link io.ReadWriter = port
	if o.Verbose {
		link = trace.New(port, log.New(os.Stderr, "", log.LstdFlags))
	}

	m := gsm.New(clockedTransport{ReadWriter: link},
		gsm.WithStateFunc(func(s gsm.State) { log.Printf("state: %s", s) }),
		gsm.WithEventFunc(func(e gsm.Event) { log.Printf("event: %s", e) }),
		gsm.WithErrorFunc(func(e gsm.CMEError) { log.Println(e) }),
	)

	connected := false
	sent := false
	rxbuf := make([]byte, 256)

	for {
		m.Process()
		switch {
		case m.State() == gsm.Reset:
		case m.State() == gsm.Ready:
			if err := m.Configure(o.APN, 0); err != nil {
				log.Println(err)
			}
		case m.State() == gsm.Registered && !m.Authenticating():
			if err := m.Authenticate(o.APN, o.User, o.Pass); err != nil && err != gsm.ErrAlreadyInProgress {
				log.Println(err)
			}
		case m.Online() && !m.Handshaking() && !connected:
			if m.Connected() {
				connected = true
			} else if err := m.Connect(o.Host, o.Port); err != nil && err != gsm.ErrAlreadyInProgress {
				log.Println(err)
			}
		case m.Connected() && !sent:
			m.Send([]byte("GET / HTTP/1.0\r\n\r\n"))
			m.Receive(rxbuf)
			sent = true
		case m.Connected() && sent && m.RxCount() > 0:
			fmt.Printf("%s", rxbuf[:m.RxCount()])
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// clockedTransport adapts an io.ReadWriter into a gsm.Transport by adding a
// free-running millisecond clock. The serial port's read timeout should be
// set short (tarm/serial defaults effectively to blocking) so Read returns
// promptly between Process calls rather than stalling the loop.
type clockedTransport struct {
	io.ReadWriter
}

func (c clockedTransport) Milliseconds() uint32 {
	return uint32(time.Now().UnixNano() / int64(time.Millisecond))
}
