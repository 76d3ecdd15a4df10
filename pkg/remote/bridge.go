package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/selmc.go/pkg/axis"
)

// Bridge registers one axis controller on an MQTT broker and executes
// JSON commands received on its cmd topic. The device session allows a
// single caller, so every device access happens on the Run goroutine;
// command handling and position sampling are serialized there.
type Bridge struct {
	Queue  *Queue
	Device *axis.Device
	Conf   *Config

	cmdCh chan Command
}

// New creates a Bridge for an open device session.
func New(conf *Config, dev *axis.Device) (*Bridge, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(conf.BrokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+conf.Name()+"/meta", nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("selmc:" + conf.Name())
	}
	b := &Bridge{
		Queue:  NewQueue(opts, topicPrefix),
		Device: dev,
		Conf:   conf,
		cmdCh:  make(chan Command, 1),
	}
	b.Queue.OnConnect = func(*Queue) { b.onConnected() }
	return b, nil
}

// Run implements run.Runnable. It owns all device access until the
// context is canceled, then withdraws the retained meta and disconnects.
func (b *Bridge) Run(ctx context.Context) error {
	b.Queue.Connect()
	var posCh <-chan time.Time
	if b.Conf.PosInterval > 0 {
		ticker := time.NewTicker(b.Conf.PosInterval)
		defer ticker.Stop()
		posCh = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			b.Queue.PubWith(b.Conf.Name()+"/meta", nil, 1, true)
			b.Queue.Close()
			return ctx.Err()
		case cmd := <-b.cmdCh:
			b.publish("ack", b.execute(cmd))
		case <-posCh:
			b.samplePosition()
		}
	}
}

func (b *Bridge) onConnected() {
	conf := b.Device.Config()
	meta, err := json.Marshal(&Meta{
		Description:   b.Conf.Description,
		RailLength:    conf.RailLength,
		StepsPerMeter: conf.StepsPerMeter,
	})
	if err != nil {
		panic(err)
	}
	b.Queue.PubWith(b.Conf.Name()+"/meta", meta, 1, true)
	b.Queue.Sub(b.Conf.Name()+"/cmd", b.dispatch)
}

// dispatch runs on the MQTT client goroutine; it only parses and hands
// over to the Run goroutine.
func (b *Bridge) dispatch(_ paho.Client, msg paho.Message) {
	var cmd Command
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		glog.Warningf("bad command payload: %v", err)
		return
	}
	select {
	case b.cmdCh <- cmd:
	default:
		glog.Warningf("command %q dropped, bridge busy", cmd.Op)
	}
}

func (b *Bridge) samplePosition() {
	pos, err := b.Device.Position()
	if err != nil {
		glog.Warningf("position sample failed: %v", err)
		return
	}
	b.publish("pos", &PositionSample{Position: pos})
}

func (b *Bridge) publish(topic string, msg interface{}) {
	out, err := json.Marshal(msg)
	if err != nil {
		panic(err)
	}
	b.Queue.Pub(b.Conf.Name()+"/"+topic, out)
}

// execute performs one command on the device and shapes the result.
func (b *Bridge) execute(cmd Command) *Result {
	res := &Result{Seq: cmd.Seq, Op: cmd.Op}
	var err error
	switch cmd.Op {
	case OpInit:
		err = b.Device.Init(true)
	case OpHome:
		err = b.Device.Homing(true)
	case OpSimHome:
		err = b.Device.SimulateHoming(true)
	case OpMove:
		err = b.Device.MoveRelative(cmd.Distance, cmd.Velocity, true)
	case OpMoveTo:
		err = b.Device.MoveAbsolute(cmd.Position, cmd.Velocity, true)
	case OpPosition:
		var pos float64
		if pos, err = b.Device.Position(); err == nil {
			res.Position = &pos
		}
	case OpReadPort:
		res.Payload, err = b.Device.ReadPort(cmd.Port)
	case OpWritePort:
		err = b.Device.WritePort(cmd.Port, cmd.Value, true)
	case OpRelease:
		err = b.Device.Release(true)
	case OpSave:
		err = b.Device.SaveProgram(true)
	case OpFlush:
		err = b.Device.FlushProgram(true)
	case OpDisplay:
		err = b.Device.Display(cmd.Row, cmd.Column, cmd.Text, true)
	case OpDisplayClear:
		err = b.Device.ClearDisplayRow(cmd.Row, true)
	case OpStart:
		err = b.Device.Start(true)
	case OpTestMode:
		err = b.Device.TestMode(cmd.State, true)
	case OpVersion:
		res.Payload, err = b.Device.Version()
	case OpStop:
		err = b.Device.Stop()
	case OpReset:
		err = b.Device.Reset()
	case OpBreak:
		err = b.Device.Break()
	default:
		err = fmt.Errorf("unknown op %q", cmd.Op)
	}
	if err != nil {
		res.Error = err.Error()
	} else {
		res.OK = true
	}
	return res
}
