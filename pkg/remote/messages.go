package remote

// Command is a JSON message received on the cmd topic. Op selects the
// operation; the remaining fields carry its arguments.
type Command struct {
	// Seq is echoed back in the Result so callers can match replies.
	Seq int64  `json:"seq,omitempty"`
	Op  string `json:"op"`

	Distance float64 `json:"distance,omitempty"` // move
	Position float64 `json:"position,omitempty"` // moveto
	Velocity float64 `json:"velocity,omitempty"` // move, moveto
	Port     int     `json:"port,omitempty"`     // port.read, port.write
	Value    int     `json:"value,omitempty"`    // port.write
	Row      int     `json:"row,omitempty"`      // display, display.clear
	Column   int     `json:"column,omitempty"`   // display
	Text     string  `json:"text,omitempty"`     // display
	State    bool    `json:"state,omitempty"`    // test
}

// Operations accepted on the cmd topic.
const (
	OpInit         = "init"
	OpHome         = "home"
	OpSimHome      = "simhome"
	OpMove         = "move"
	OpMoveTo       = "moveto"
	OpPosition     = "pos"
	OpReadPort     = "port.read"
	OpWritePort    = "port.write"
	OpRelease      = "release"
	OpSave         = "save"
	OpFlush        = "flush"
	OpDisplay      = "display"
	OpDisplayClear = "display.clear"
	OpStart        = "start"
	OpTestMode     = "test"
	OpVersion      = "version"
	OpStop         = "stop"
	OpReset        = "reset"
	OpBreak        = "break"
)

// Result is published on the ack topic for each executed command.
type Result struct {
	Seq   int64  `json:"seq,omitempty"`
	Op    string `json:"op"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	// Payload carries the raw acknowledgement payload for queries like
	// version and port.read.
	Payload string `json:"payload,omitempty"`
	// Position is set for pos results, in meters.
	Position *float64 `json:"position,omitempty"`
}

// PositionSample is published periodically on the pos topic.
type PositionSample struct {
	Position float64 `json:"position"`
}

// Meta is retained on the meta topic while the bridge is connected and
// cleared by the broker's will when it drops off.
type Meta struct {
	Description   string  `json:"description,omitempty"`
	RailLength    float64 `json:"rail_length"`
	StepsPerMeter float64 `json:"steps_per_meter"`
}
