// Package sh provides the ishell backed interactive shell for axcli.
package sh

import (
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/selmc.go/pkg/axis"
	"github.com/robotalks/selmc.go/pkg/dnc/serial"
)

// Shell provides ishell backed interactive shell around one axis session.
type Shell struct {
	Interactive bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *axis.Config
	Device *axis.Device
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly bool

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *axis.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Device gets the connected device from ishell context.
func Device(c *ishell.Context) *axis.Device {
	return ShellFrom(c).Device
}

// MustBeConnected wraps command funcs requiring an open session.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Device == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens a session on port, falling back to the configured one.
func (s *Shell) Connect(port string) error {
	conf := *s.Config
	if port != "" {
		conf.Port = port
	}
	if conf.Port == "" {
		return fmt.Errorf("no serial port specified")
	}
	dev, err := conf.Open()
	if err != nil {
		return err
	}
	s.Disconnect()
	s.Device = dev
	s.Shell.SetPrompt(conf.Port + " > ")
	return nil
}

// Disconnect closes the current session.
func (s *Shell) Disconnect() {
	if s.Device != nil {
		s.Device.Close()
		s.Device = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Port != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Port)
		}
		if err := s.Connect(""); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Port, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd enumerates serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ports, err := serial.ListPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}

	// ConnectCmd opens a session on a serial port.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[PORT]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var port string
			if len(c.Args) >= 1 {
				port = c.Args[0]
			} else if s.Config.Port == "" {
				ports, err := serial.ListPorts()
				if err != nil {
					c.Err(err)
					return
				}
				switch len(ports) {
				case 0:
					c.Err(fmt.Errorf("no serial ports found"))
					return
				case 1:
					port = ports[0]
				default:
					if !s.Interactive {
						c.Err(fmt.Errorf("more than 1 serial ports found in non-interactive mode"))
						return
					}
					port = ports[s.Shell.MultiChoice(ports, "Which port to connect?")]
				}
			}
			if err := s.Connect(port); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd closes the current session.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(axis.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
