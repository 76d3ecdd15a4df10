// Package axis provides the shell commands driving an axis controller.
package axis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/selmc.go/pkg/cli/sh"
)

func parseFloat(c *ishell.Context, index int, name string) (float64, bool) {
	val, err := strconv.ParseFloat(c.Args[index], 64)
	if err != nil {
		c.Err(fmt.Errorf("Invalid %s: %v", name, err))
		return 0, false
	}
	return val, true
}

func parseInt(c *ishell.Context, index int, name string) (int, bool) {
	val, err := strconv.Atoi(c.Args[index])
	if err != nil {
		c.Err(fmt.Errorf("Invalid %s: %v", name, err))
		return 0, false
	}
	return val, true
}

func report(c *ishell.Context, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	c.Println("OK")
}

var (
	// InitCmd initializes the axis.
	InitCmd = ishell.Cmd{
		Name: "init",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			report(c, sh.Device(c).Init(true))
		}),
	}

	// HomeCmd homes the axis.
	HomeCmd = ishell.Cmd{
		Name:    "home",
		Aliases: []string{"h"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			report(c, sh.Device(c).Homing(true))
		}),
	}

	// SimHomeCmd simulates homing.
	SimHomeCmd = ishell.Cmd{
		Name: "simhome",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			report(c, sh.Device(c).SimulateHoming(true))
		}),
	}

	// MoveCmd moves the axis relatively.
	MoveCmd = ishell.Cmd{
		Name:    "move",
		Aliases: []string{"m"},
		Help:    "DISTANCE(m) VELOCITY(m/s)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("DISTANCE and VELOCITY required"))
				return
			}
			dist, ok := parseFloat(c, 0, "DISTANCE")
			if !ok {
				return
			}
			vel, ok := parseFloat(c, 1, "VELOCITY")
			if !ok {
				return
			}
			report(c, sh.Device(c).MoveRelative(dist, vel, true))
		}),
	}

	// MoveToCmd moves the axis to an absolute position.
	MoveToCmd = ishell.Cmd{
		Name:    "moveto",
		Aliases: []string{"mt"},
		Help:    "POSITION(m) VELOCITY(m/s)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("POSITION and VELOCITY required"))
				return
			}
			pos, ok := parseFloat(c, 0, "POSITION")
			if !ok {
				return
			}
			vel, ok := parseFloat(c, 1, "VELOCITY")
			if !ok {
				return
			}
			report(c, sh.Device(c).MoveAbsolute(pos, vel, true))
		}),
	}

	// PosCmd queries the current position.
	PosCmd = ishell.Cmd{
		Name:    "pos",
		Aliases: []string{"p"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pos, err := sh.Device(c).Position()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%.6f m\n", pos)
		}),
	}

	// ReadPortCmd reads an I/O port.
	ReadPortCmd = ishell.Cmd{
		Name: "port.read",
		Help: "PORT",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("PORT required"))
				return
			}
			port, ok := parseInt(c, 0, "PORT")
			if !ok {
				return
			}
			value, err := sh.Device(c).ReadPort(port)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(value)
		}),
	}

	// WritePortCmd writes an I/O port.
	WritePortCmd = ishell.Cmd{
		Name: "port.write",
		Help: "PORT VALUE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("PORT and VALUE required"))
				return
			}
			port, ok := parseInt(c, 0, "PORT")
			if !ok {
				return
			}
			value, ok := parseInt(c, 1, "VALUE")
			if !ok {
				return
			}
			report(c, sh.Device(c).WritePort(port, value, true))
		}),
	}

	// DisplayCmd prints text on the controller display.
	DisplayCmd = ishell.Cmd{
		Name: "display",
		Help: "ROW COLUMN TEXT...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("ROW, COLUMN and TEXT required"))
				return
			}
			row, ok := parseInt(c, 0, "ROW")
			if !ok {
				return
			}
			col, ok := parseInt(c, 1, "COLUMN")
			if !ok {
				return
			}
			text := strings.Join(c.Args[2:], " ")
			report(c, sh.Device(c).Display(row, col, text, true))
		}),
	}

	// ClearRowCmd clears one display row.
	ClearRowCmd = ishell.Cmd{
		Name: "display.clear",
		Help: "ROW",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ROW required"))
				return
			}
			row, ok := parseInt(c, 0, "ROW")
			if !ok {
				return
			}
			report(c, sh.Device(c).ClearDisplayRow(row, true))
		}),
	}

	// ReleaseCmd frees a stuck axis.
	ReleaseCmd = ishell.Cmd{
		Name: "release",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			report(c, sh.Device(c).Release(true))
		}),
	}

	// SaveCmd stores the CNC program.
	SaveCmd = ishell.Cmd{
		Name: "save",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			report(c, sh.Device(c).SaveProgram(true))
		}),
	}

	// FlushCmd discards buffered CNC data.
	FlushCmd = ishell.Cmd{
		Name: "flush",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			report(c, sh.Device(c).FlushProgram(true))
		}),
	}

	// StartCmd starts the stored program or motion.
	StartCmd = ishell.Cmd{
		Name: "start",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			report(c, sh.Device(c).Start(true))
		}),
	}

	// TestModeCmd enables or disables test mode.
	TestModeCmd = ishell.Cmd{
		Name: "test",
		Help: "on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("on or off required"))
				return
			}
			var on bool
			switch c.Args[0] {
			case "on":
				on = true
			case "off":
			default:
				c.Err(fmt.Errorf("on or off required"))
				return
			}
			report(c, sh.Device(c).TestMode(on, true))
		}),
	}

	// VersionCmd queries the controller version.
	VersionCmd = ishell.Cmd{
		Name:    "version",
		Aliases: []string{"v"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			vers, err := sh.Device(c).Version()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(vers)
		}),
	}

	// StopCmd stops motion immediately.
	StopCmd = ishell.Cmd{
		Name: "stop",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			report(c, sh.Device(c).Stop())
		}),
	}

	// ResetCmd stops motion and resets the controller.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			report(c, sh.Device(c).Reset())
		}),
	}

	// BreakCmd breaks motion immediately.
	BreakCmd = ishell.Cmd{
		Name: "brk",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			report(c, sh.Device(c).Break())
		}),
	}
)

func init() {
	sh.AddCmds(
		&InitCmd,
		&HomeCmd,
		&SimHomeCmd,
		&MoveCmd,
		&MoveToCmd,
		&PosCmd,
		&ReadPortCmd,
		&WritePortCmd,
		&DisplayCmd,
		&ClearRowCmd,
		&ReleaseCmd,
		&SaveCmd,
		&FlushCmd,
		&StartCmd,
		&TestModeCmd,
		&VersionCmd,
		&StopCmd,
		&ResetCmd,
		&BreakCmd,
	)
}
