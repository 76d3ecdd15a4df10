package dnc

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scriptChannel records everything written and replays scripted input.
// Each successive WriteString queues the next group of response lines, so
// a reply only becomes readable after the transmission it answers. With
// nothing queued every read times out.
type scriptChannel struct {
	responses [][]string // queued per successive write
	reads     []string   // pending input
	writes    []string
	ctl       []byte
	closed    int

	readErr  error
	writeErr error
}

func (c *scriptChannel) WriteString(s string) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.writes = append(c.writes, s)
	if len(c.responses) > 0 {
		c.reads = append(c.reads, c.responses[0]...)
		c.responses = c.responses[1:]
	}
	return nil
}

func (c *scriptChannel) SendByte(b byte) error {
	c.ctl = append(c.ctl, b)
	return nil
}

func (c *scriptChannel) ReadLine() (string, error) {
	if c.readErr != nil {
		return "", c.readErr
	}
	if len(c.reads) == 0 {
		return "", nil
	}
	line := c.reads[0]
	c.reads = c.reads[1:]
	return line, nil
}

func (c *scriptChannel) Close() error {
	c.closed++
	return nil
}

func newTestDispatcher(ch *scriptChannel) *Dispatcher {
	d := NewDispatcher(ch, 0)
	// deterministic clock: one second per observation
	var tick int64
	d.now = func() time.Time {
		tick++
		return time.Unix(tick, 0)
	}
	return d
}

func TestDispatcherBlocking(t *testing.T) {
	testCases := []struct {
		name      string
		responses [][]string
		req       Request
		payload   string
		err       error
		writes    []string
	}{
		{
			name:      "ok first try",
			responses: [][]string{{"0abc"}},
			req:       Request{Cmd: "P", Blocking: true, Timeout: time.Minute},
			payload:   "abc",
			writes:    []string{"@0P"},
		},
		{
			name:      "empty reads tolerated until ack",
			responses: [][]string{{"", "", "0"}},
			req:       Request{Cmd: "1", Arg: "0", Blocking: true, Timeout: time.Minute},
			writes:    []string{"@010"},
		},
		{
			name:   "retries exhausted",
			req:    Request{Cmd: "r", Arg: "1", Blocking: true, RetryAttempts: 2},
			err:    ErrRetriesExceeded,
			writes: []string{"@0r1", "@0r1", "@0r1"},
		},
		{
			name:   "no retry without budget",
			req:    Request{Cmd: "s", Blocking: true},
			err:    ErrRetriesExceeded,
			writes: []string{"@0s"},
		},
		{
			name:      "device error never retried",
			responses: [][]string{{"3"}},
			req:       Request{Cmd: "M", Arg: "10,2", Blocking: true, RetryAttempts: 3, Timeout: time.Minute},
			err:       &DeviceError{Code: '3'},
			writes:    []string{"@0M10,2"},
		},
		{
			name:      "success after retry",
			responses: [][]string{nil, {"0done"}},
			req:       Request{Cmd: "F", Arg: "1", Blocking: true, RetryAttempts: 1},
			payload:   "done",
			writes:    []string{"@0F1", "@0F1"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ch := &scriptChannel{responses: tc.responses}
			d := newTestDispatcher(ch)
			payload, err := d.Do(tc.req)
			if tc.err != nil {
				require.Equal(t, tc.err, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, tc.payload, payload)
			}
			require.Equal(t, tc.writes, ch.writes)
		})
	}
}

func TestDispatcherNonBlocking(t *testing.T) {
	ch := &scriptChannel{reads: []string{"should never be read"}}
	d := newTestDispatcher(ch)
	payload, err := d.Do(Request{Cmd: "a", Arg: "100,10"})
	require.NoError(t, err)
	require.Empty(t, payload)
	require.Equal(t, []string{"@0a100,10"}, ch.writes)
	require.Len(t, ch.reads, 1, "non-blocking dispatch must not read")
}

func TestDispatcherStaleAckDrained(t *testing.T) {
	// the ack of the first attempt arrives after its deadline; the retry
	// must drop it instead of taking it for the reply to the retransmit
	ch := &scriptChannel{responses: [][]string{{"", "0stale"}, {"0fresh"}}}
	d := newTestDispatcher(ch)
	payload, err := d.Do(Request{Cmd: "b", Arg: "1", Blocking: true, RetryAttempts: 1})
	require.NoError(t, err)
	require.Equal(t, "fresh", payload)
	require.Equal(t, []string{"@0b1", "@0b1"}, ch.writes)
}

func TestDispatcherWriteError(t *testing.T) {
	boom := errors.New("boom")
	ch := &scriptChannel{writeErr: boom}
	d := newTestDispatcher(ch)
	_, err := d.Do(Request{Cmd: "V", Blocking: true})
	require.Equal(t, boom, err)
}

func TestDispatcherReadError(t *testing.T) {
	boom := errors.New("boom")
	ch := &scriptChannel{readErr: boom}
	d := newTestDispatcher(ch)
	_, err := d.Do(Request{Cmd: "V", Blocking: true, Timeout: time.Minute})
	require.Equal(t, boom, err)
}

func TestSendControl(t *testing.T) {
	ch := &scriptChannel{}
	d := newTestDispatcher(ch)
	require.NoError(t, d.SendControl(CtlStop))
	require.NoError(t, d.SendControl(CtlReset))
	require.NoError(t, d.SendControl(CtlBreak))
	require.Equal(t, []byte{253, 254, 255}, ch.ctl)
}
