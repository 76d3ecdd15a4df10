// Package serial provides the DNC byte channel over a local serial port.
package serial

import (
	"io"
	"strings"
	"time"

	goserial "go.bug.st/serial"
)

// DefaultBaudRate is the controller link speed in the reference deployment.
const DefaultBaudRate = 19200

// readTimeout is the transport's short per-read timeout. It bounds one
// poll of the acknowledgement waiter and is independent of any command
// level deadline.
const readTimeout = 200 * time.Millisecond

const terminator = '\r'

// Channel implements dnc.Channel over a serial port.
type Channel struct {
	rwc io.ReadWriteCloser
}

// Open opens the serial port with the controller's framing: 8 data bits,
// no parity, one stop bit. The read timeout is set short so that an empty
// read maps to "no data yet" at the protocol layer.
func Open(device string, baudRate int) (*Channel, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	mode := &goserial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	}
	port, err := goserial.Open(device, mode)
	if err != nil {
		return nil, err
	}
	if err = port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, err
	}
	return &Channel{rwc: port}, nil
}

// ListPorts enumerates the serial ports available on this host.
func ListPorts() ([]string, error) {
	return goserial.GetPortsList()
}

// WriteString sends s followed by the CR terminator.
func (c *Channel) WriteString(s string) error {
	_, err := c.rwc.Write(append([]byte(s), terminator))
	return err
}

// SendByte sends one raw byte without framing or terminator.
func (c *Channel) SendByte(b byte) error {
	_, err := c.rwc.Write([]byte{b})
	return err
}

// ReadLine accumulates bytes until a line terminator or until the port's
// read timeout strikes, whichever comes first, and returns the line with
// CR/LF stripped. A timeout with nothing accumulated yields an empty line.
func (c *Channel) ReadLine() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := c.rwc.Read(buf)
		if err != nil {
			return "", err
		}
		if n == 0 {
			// read timeout; surface whatever arrived so far
			return sb.String(), nil
		}
		if buf[0] == terminator || buf[0] == '\n' {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			// stray terminator, keep polling
			continue
		}
		sb.WriteByte(buf[0])
	}
}

// Close releases the port.
func (c *Channel) Close() error {
	return c.rwc.Close()
}
