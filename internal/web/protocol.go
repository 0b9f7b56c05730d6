package web

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"

	"github.com/san-kum/wavesim/internal/sim"
)

// ControlMessage is what a browser sends: {"type":"set","name":"speed","value":0.3}.
type ControlMessage struct {
	Type  string  `json:"type"`
	Name  string  `json:"name,omitempty"`
	Value float64 `json:"value,omitempty"`
}

func DecodeCommand(data []byte) (sim.Command, error) {
	var msg ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return sim.Command{}, fmt.Errorf("web: bad control message: %w", err)
	}
	kind, ok := sim.ParseCommandKind(msg.Type)
	if !ok {
		return sim.Command{}, fmt.Errorf("web: unknown control type %q", msg.Type)
	}
	switch kind {
	case sim.CmdSetParam:
		if msg.Name == "" {
			return sim.Command{}, fmt.Errorf("web: set needs a name")
		}
		return sim.SetParam(msg.Name, msg.Value), nil
	case sim.CmdSetPalette:
		return sim.SetPalette(msg.Name), nil
	}
	return sim.Command{Kind: kind}, nil
}

// StateMessage is pushed to clients as text alongside binary frames.
type StateMessage struct {
	Type    string             `json:"type"`
	Solver  string             `json:"solver"`
	Steps   int                `json:"steps"`
	Width   int                `json:"width"`
	Height  int                `json:"height"`
	Params  sim.Params         `json:"params"`
	Values  map[string]float64 `json:"values"`
	Profile []float64          `json:"profile,omitempty"`
	Error   string             `json:"error,omitempty"`
}

const frameHeader = 8

// EncodeFrame packs an RGBA image as little-endian width and height
// followed by the raw pixels.
func EncodeFrame(dst []byte, img *image.RGBA) []byte {
	b := img.Bounds()
	n := frameHeader + len(img.Pix)
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	binary.LittleEndian.PutUint32(dst[0:], uint32(b.Dx()))
	binary.LittleEndian.PutUint32(dst[4:], uint32(b.Dy()))
	copy(dst[frameHeader:], img.Pix)
	return dst
}

func DecodeFrameHeader(data []byte) (w, h int, err error) {
	if len(data) < frameHeader {
		return 0, 0, fmt.Errorf("web: frame too short")
	}
	w = int(binary.LittleEndian.Uint32(data[0:]))
	h = int(binary.LittleEndian.Uint32(data[4:]))
	if len(data) != frameHeader+4*w*h {
		return 0, 0, fmt.Errorf("web: frame is %d bytes, want %d", len(data), frameHeader+4*w*h)
	}
	return w, h, nil
}
