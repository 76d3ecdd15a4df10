package axis

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/selmc.go/pkg/dnc"
	"github.com/robotalks/selmc.go/pkg/dnc/serial"
)

// Command identifiers of the MC1 DNC command set.
const (
	cmdInit         = "1"
	cmdMoveRelative = "a"
	cmdReadPort     = "b"
	cmdWritePort    = "B"
	cmdRelease      = "F"
	cmdSaveProgram  = "i"
	cmdFlushProgram = "k"
	cmdClearRow     = "l"
	cmdDisplay      = "L"
	cmdMoveAbsolute = "M"
	cmdSimHoming    = "N"
	cmdPosition     = "P"
	cmdHoming       = "r"
	cmdStart        = "s"
	cmdTestMode     = "T"
	cmdVersion      = "V"
)

// releaseTimeout bounds the Release command, which can take longer than
// administrative commands while the axis works itself free.
const releaseTimeout = 10 * time.Second

// Device is a session with one axis controller. It exclusively owns the
// underlying channel. The session is synchronous and not safe for
// concurrent use; callers must serialize access themselves.
type Device struct {
	conf Config
	disp *dnc.Dispatcher

	closeOnce sync.Once
	closeErr  error
}

// New creates a session over an already-open channel. The channel is owned
// by the session from this point on and is closed even when the
// configuration is rejected.
func New(ch dnc.Channel, conf *Config) (*Device, error) {
	if conf.RailLength <= 0 || conf.StepsPerMeter <= 0 {
		ch.Close()
		return nil, fmt.Errorf("rail length and steps per meter must be positive")
	}
	return &Device{
		conf: *conf,
		disp: dnc.NewDispatcher(ch, conf.DeviceID),
	}, nil
}

// Open opens the configured serial port and creates a session.
func (c *Config) Open() (*Device, error) {
	ch, err := serial.Open(c.Port, c.BaudRate)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", c.Port, err)
	}
	return New(ch, c)
}

// Config returns a copy of the session configuration.
func (d *Device) Config() Config {
	return d.conf
}

// Close closes the underlying channel. Repeated calls are tolerated and
// return the result of the first close.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.disp.Channel.Close()
	})
	return d.closeErr
}

// Init initializes the axis.
func (d *Device) Init(blocking bool) error {
	_, err := d.do(cmdInit, "0", blocking, d.conf.DefaultTimeout, d.conf.RetryAttempts)
	return err
}

// MoveRelative moves the axis by distance meters at velocity m/s. The
// acknowledgement arrives when the motion completes, so the timeout covers
// the traversal time. Timed-out moves are not retransmitted.
func (d *Device) MoveRelative(distance, velocity float64, blocking bool) error {
	timeout, err := d.travelTimeout(distance, velocity)
	if err != nil {
		return err
	}
	_, err = d.do(cmdMoveRelative, d.motionArg(distance, velocity), blocking, timeout, 0)
	return err
}

// MoveAbsolute moves the axis to position meters at velocity m/s. The
// current position is queried first to size the timeout by the distance
// actually travelled.
func (d *Device) MoveAbsolute(position, velocity float64, blocking bool) error {
	current, err := d.Position()
	if err != nil {
		return err
	}
	timeout, err := d.travelTimeout(position-current, velocity)
	if err != nil {
		return err
	}
	_, err = d.do(cmdMoveAbsolute, d.motionArg(position, velocity), blocking, timeout, d.conf.RetryAttempts)
	return err
}

// Homing homes the axis. The timeout covers a worst-case traversal of the
// full rail at the fixed homing velocity.
func (d *Device) Homing(blocking bool) error {
	_, err := d.do(cmdHoming, "1", blocking, d.homingTimeout(), d.conf.RetryAttempts)
	return err
}

// SimulateHoming simulates homing without moving the axis.
func (d *Device) SimulateHoming(blocking bool) error {
	_, err := d.do(cmdSimHoming, "1", blocking, d.conf.DefaultTimeout, d.conf.RetryAttempts)
	return err
}

// Position queries the current axis position in meters.
func (d *Device) Position() (float64, error) {
	payload, err := d.do(cmdPosition, "", true, d.conf.DefaultTimeout, d.conf.RetryAttempts)
	if err != nil {
		return 0, err
	}
	steps, err := dnc.ParseSignedHex(payload)
	if err != nil {
		return 0, err
	}
	return dnc.MetersFromSteps(steps, d.conf.StepsPerMeter), nil
}

// ReadPort reads an I/O port and returns its raw payload.
func (d *Device) ReadPort(port int) (string, error) {
	return d.do(cmdReadPort, strconv.Itoa(port), true, d.conf.DefaultTimeout, d.conf.RetryAttempts)
}

// WritePort writes value to an I/O port.
func (d *Device) WritePort(port, value int, blocking bool) error {
	arg := fmt.Sprintf("%d,%d", port, value)
	_, err := d.do(cmdWritePort, arg, blocking, d.conf.DefaultTimeout, d.conf.RetryAttempts)
	return err
}

// Release frees the axis when it is stuck.
func (d *Device) Release(blocking bool) error {
	_, err := d.do(cmdRelease, "1", blocking, releaseTimeout, d.conf.RetryAttempts)
	return err
}

// SaveProgram stores the CNC program in the controller.
func (d *Device) SaveProgram(blocking bool) error {
	_, err := d.do(cmdSaveProgram, "", blocking, d.conf.DefaultTimeout, d.conf.RetryAttempts)
	return err
}

// FlushProgram discards buffered CNC data in the controller.
func (d *Device) FlushProgram(blocking bool) error {
	_, err := d.do(cmdFlushProgram, "", blocking, d.conf.DefaultTimeout, d.conf.RetryAttempts)
	return err
}

// ClearDisplayRow clears one row of the controller display.
func (d *Device) ClearDisplayRow(row int, blocking bool) error {
	_, err := d.do(cmdClearRow, strconv.Itoa(row), blocking, d.conf.DefaultTimeout, d.conf.RetryAttempts)
	return err
}

// Display prints text on the controller display at row, column.
func (d *Device) Display(row, column int, text string, blocking bool) error {
	arg := fmt.Sprintf("%d,%d,%s", row, column, text)
	_, err := d.do(cmdDisplay, arg, blocking, d.conf.DefaultTimeout, d.conf.RetryAttempts)
	return err
}

// Start starts the stored CNC program or motion.
func (d *Device) Start(blocking bool) error {
	_, err := d.do(cmdStart, "", blocking, d.conf.DefaultTimeout, d.conf.RetryAttempts)
	return err
}

// TestMode enables or disables the controller's test mode.
func (d *Device) TestMode(on, blocking bool) error {
	arg := "0"
	if on {
		arg = "1"
	}
	_, err := d.do(cmdTestMode, arg, blocking, d.conf.DefaultTimeout, d.conf.RetryAttempts)
	return err
}

// Version queries the controller's version info.
func (d *Device) Version() (string, error) {
	return d.do(cmdVersion, "", true, d.conf.DefaultTimeout, d.conf.RetryAttempts)
}

// Stop stops motion immediately. Control bytes are fire-and-forget and
// never acknowledged.
func (d *Device) Stop() error {
	return d.disp.SendControl(dnc.CtlStop)
}

// Reset stops motion immediately and resets the controller state.
func (d *Device) Reset() error {
	return d.disp.SendControl(dnc.CtlReset)
}

// Break breaks motion immediately.
func (d *Device) Break() error {
	return d.disp.SendControl(dnc.CtlBreak)
}

func (d *Device) do(cmd, arg string, blocking bool, timeout time.Duration, retries int) (string, error) {
	glog.V(2).Infof("CMD %s %q", cmd, arg)
	return d.disp.Do(dnc.Request{
		Cmd:           cmd,
		Arg:           arg,
		Blocking:      blocking,
		Timeout:       timeout,
		RetryAttempts: retries,
	})
}

// motionArg renders "<steps>,<steps/s>" for motion commands.
func (d *Device) motionArg(distance, velocity float64) string {
	return fmt.Sprintf("%d,%d",
		dnc.StepsFromMeters(distance, d.conf.StepsPerMeter),
		dnc.StepsFromMeters(velocity, d.conf.StepsPerMeter))
}

// travelTimeout sizes a motion timeout by the physical worst case: the
// default timeout plus the traversal time of distance at velocity.
func (d *Device) travelTimeout(distance, velocity float64) (time.Duration, error) {
	if velocity <= 0 {
		return 0, fmt.Errorf("velocity must be positive, got %v", velocity)
	}
	return d.conf.DefaultTimeout + seconds(math.Abs(distance)/velocity), nil
}

// homingTimeout is the worst-case full-rail traversal at the fixed homing
// velocity, on top of the default timeout.
func (d *Device) homingTimeout() time.Duration {
	return d.conf.DefaultTimeout + seconds(d.conf.RailLength/d.conf.HomingVelocity)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
