package sim

import (
	"fmt"
	"time"
)

// Params mirrors every value a control surface can change. It is owned by
// the Simulation and only mutated between ticks.
type Params struct {
	Speed           float64 `json:"speed"`
	Damping         float64 `json:"damping"`
	SlitWidth       float64 `json:"slit_width"`
	SlitSeparation  float64 `json:"slit_separation"`
	SourceAmplitude float64 `json:"source_amplitude"`
	SourceFrequency float64 `json:"source_frequency"`
	Dt              float64 `json:"dt,omitempty"`
	Palette         string  `json:"palette"`
	Paused          bool    `json:"paused"`
	Measured        bool    `json:"measured"`
}

func (p *Params) set(name string, v float64) {
	switch name {
	case "speed":
		p.Speed = v
	case "damping":
		p.Damping = v
	case "slit_width":
		p.SlitWidth = v
	case "slit_separation":
		p.SlitSeparation = v
	case "source_amplitude":
		p.SourceAmplitude = v
	case "source_frequency":
		p.SourceFrequency = v
	case "dt":
		p.Dt = v
	}
}

type CommandKind int

const (
	CmdPause CommandKind = iota
	CmdResume
	CmdTogglePause
	CmdReset
	CmdMeasure
	CmdSetParam
	CmdSetPalette
)

var commandNames = map[CommandKind]string{
	CmdPause:       "pause",
	CmdResume:      "resume",
	CmdTogglePause: "toggle",
	CmdReset:       "reset",
	CmdMeasure:     "measure",
	CmdSetParam:    "set",
	CmdSetPalette:  "palette",
}

func (k CommandKind) String() string {
	if n, ok := commandNames[k]; ok {
		return n
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// ParseCommandKind is the inverse of CommandKind.String.
func ParseCommandKind(s string) (CommandKind, bool) {
	for k, n := range commandNames {
		if n == s {
			return k, true
		}
	}
	return 0, false
}

// Command is one control action. Name carries the parameter or palette
// name, Value the parameter value.
type Command struct {
	Kind  CommandKind
	Name  string
	Value float64
}

func Pause() Command       { return Command{Kind: CmdPause} }
func Resume() Command      { return Command{Kind: CmdResume} }
func TogglePause() Command { return Command{Kind: CmdTogglePause} }
func Reset() Command       { return Command{Kind: CmdReset} }
func Measure() Command     { return Command{Kind: CmdMeasure} }

func SetParam(name string, v float64) Command {
	return Command{Kind: CmdSetParam, Name: name, Value: v}
}

func SetPalette(name string) Command {
	return Command{Kind: CmdSetPalette, Name: name}
}

func (c Command) String() string {
	switch c.Kind {
	case CmdSetParam:
		return fmt.Sprintf("set %s=%g", c.Name, c.Value)
	case CmdSetPalette:
		return "palette " + c.Name
	default:
		return c.Kind.String()
	}
}

// Result summarises a headless run.
type Result struct {
	Steps    int                `json:"steps"`
	Elapsed  time.Duration      `json:"elapsed"`
	Metrics  map[string]float64 `json:"metrics"`
	Profile  []float64          `json:"profile"`
	Diverged error              `json:"-"`
}

func (r *Result) StepsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Steps) / r.Elapsed.Seconds()
}
