package dnc

import (
	"time"

	"github.com/golang/glog"
)

// Request describes one command dispatch.
type Request struct {
	Cmd string
	Arg string
	// Blocking waits for an acknowledgement before returning.
	Blocking bool
	// Timeout is the acknowledgement deadline of one attempt.
	Timeout time.Duration
	// RetryAttempts is how many retransmissions are allowed after a
	// timeout. Device-reported errors are never retried.
	RetryAttempts int
}

// Dispatcher sends DNC commands over a Channel and interprets the
// acknowledgements. It assumes exclusive ownership of the channel and is
// not safe for concurrent use; callers must serialize access themselves.
type Dispatcher struct {
	Channel  Channel
	DeviceID int

	now func() time.Time // overridable for tests
}

// NewDispatcher creates a Dispatcher for a device on the channel.
func NewDispatcher(ch Channel, deviceID int) *Dispatcher {
	return &Dispatcher{Channel: ch, DeviceID: deviceID}
}

// Do dispatches one command. A non-blocking request returns as soon as the
// frame is written, with no payload. A blocking request waits for the
// acknowledgement and returns its payload; when no acknowledgement arrives
// within req.Timeout the whole attempt is re-executed until the retry
// budget runs out, then Do fails with ErrRetriesExceeded.
func (d *Dispatcher) Do(req Request) (string, error) {
	frame := EncodeFrame(d.DeviceID, req.Cmd, req.Arg)
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			glog.Warningf("cmd %q timed out, attempt %d of %d", req.Cmd, attempt+1, req.RetryAttempts+1)
			if err := d.drain(); err != nil {
				return "", err
			}
		}
		glog.V(3).Infof("SND %q", frame)
		if err := d.Channel.WriteString(frame); err != nil {
			return "", err
		}
		if !req.Blocking {
			return "", nil
		}
		payload, err := d.waitAck(d.clock().Add(req.Timeout))
		if err == ErrAckTimeout {
			if attempt < req.RetryAttempts {
				continue
			}
			return "", ErrRetriesExceeded
		}
		return payload, err
	}
}

// SendControl sends one raw control byte (CtlStop, CtlReset, CtlBreak).
// Control bytes bypass framing, acknowledgement and retry entirely.
func (d *Dispatcher) SendControl(b byte) error {
	glog.V(3).Infof("SND ctl %d", b)
	return d.Channel.SendByte(b)
}

// waitAck polls the channel for an acknowledgement line until the absolute
// deadline. Empty reads are transport-level timeouts and keep the loop
// going. A device error fails immediately; retrying it is never correct.
func (d *Dispatcher) waitAck(deadline time.Time) (string, error) {
	for {
		line, err := d.Channel.ReadLine()
		if err != nil {
			return "", err
		}
		ack, ok := ParseAck(line)
		if !ok {
			if !d.clock().Before(deadline) {
				return "", ErrAckTimeout
			}
			continue
		}
		glog.V(3).Infof("RCV %q", line)
		if !ack.OK {
			return "", &DeviceError{Code: ack.Code}
		}
		return ack.Payload, nil
	}
}

// drain discards pending input before a retransmission so a stale
// acknowledgement of an abandoned attempt is not taken for the reply to
// the new one.
func (d *Dispatcher) drain() error {
	for {
		line, err := d.Channel.ReadLine()
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}
		glog.V(3).Infof("DROP %q", line)
	}
}

func (d *Dispatcher) clock() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now()
}
