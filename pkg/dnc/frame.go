package dnc

import "strconv"

// Control bytes understood by the controller outside the line protocol.
// They take effect immediately and are never acknowledged.
const (
	CtlStop  byte = 253 // stop motion
	CtlReset byte = 254 // stop motion and reset internal state
	CtlBreak byte = 255 // break motion
)

// EncodeFrame builds the wire frame for a command without the terminator:
// "@<device><cmd><arg>". The device id is rendered in decimal. The argument
// is sent verbatim and must not contain the CR terminator.
func EncodeFrame(deviceID int, cmd, arg string) string {
	return "@" + strconv.Itoa(deviceID) + cmd + arg
}

// Ack is a decoded acknowledgement line.
type Ack struct {
	OK      bool
	Code    byte   // device error code when !OK
	Payload string // command specific, possibly empty
}

// ParseAck decodes an acknowledgement line with the terminator already
// stripped. It returns false for an empty line, meaning no data arrived yet;
// the caller must keep polling. A leading '0' is success and the rest of the
// line is the payload. Any other leading character is a device error code.
// No further framing validation is performed.
func ParseAck(line string) (Ack, bool) {
	if line == "" {
		return Ack{}, false
	}
	if line[0] == '0' {
		return Ack{OK: true, Payload: line[1:]}, true
	}
	return Ack{Code: line[0], Payload: line[1:]}, true
}
