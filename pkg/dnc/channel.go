package dnc

// Channel is the duplex byte channel a dispatcher talks over.
// Implementations wrap an already-configured transport (see sub-package
// serial); the protocol layer never deals with baud rates or port setup.
type Channel interface {
	// WriteString sends s followed by the CR terminator.
	WriteString(s string) error
	// SendByte sends one raw byte with no framing and no terminator.
	SendByte(b byte) error
	// ReadLine reads one line with the terminator stripped. It returns an
	// empty string when nothing arrived within the transport's short read
	// timeout, which is not an error.
	ReadLine() (string, error)
	// Close releases the underlying transport.
	Close() error
}
