package serial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakePort replays bytes and models read timeouts as (0, nil) reads, the
// way go.bug.st/serial ports behave with a read timeout set.
type fakePort struct {
	input  []byte
	output []byte
	closed bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.input) == 0 {
		return 0, nil // timeout
	}
	b[0] = p.input[0]
	p.input = p.input[1:]
	return 1, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.output = append(p.output, b...)
	return len(b), nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestWriteString(t *testing.T) {
	port := &fakePort{}
	ch := &Channel{rwc: port}
	require.NoError(t, ch.WriteString("@010"))
	require.Equal(t, []byte("@010\r"), port.output)
}

func TestSendByte(t *testing.T) {
	port := &fakePort{}
	ch := &Channel{rwc: port}
	require.NoError(t, ch.SendByte(253))
	require.Equal(t, []byte{253}, port.output)
}

func TestReadLine(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		lines []string
	}{
		{"terminated line", "0abc\r", []string{"0abc"}},
		{"crlf terminated", "0abc\r\n", []string{"0abc"}},
		{"two lines", "0a\r0b\r", []string{"0a", "0b"}},
		{"stray terminators skipped", "\r\n0ok\r", []string{"0ok"}},
		{"timeout with nothing", "", []string{""}},
		{"partial line on timeout", "0par", []string{"0par"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ch := &Channel{rwc: &fakePort{input: []byte(tc.input)}}
			for i, expect := range tc.lines {
				line, err := ch.ReadLine()
				require.NoError(t, err)
				require.Equalf(t, expect, line, "line[%d] mismatch", i)
			}
		})
	}
}

func TestClose(t *testing.T) {
	port := &fakePort{}
	ch := &Channel{rwc: port}
	require.NoError(t, ch.Close())
	require.True(t, port.closed)
}
