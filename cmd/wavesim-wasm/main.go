//go:build js && wasm

// Command wavesim-wasm runs a preset inside a browser page. The page needs
// a <canvas id="wavesim"> element; the preset comes from the canvas's
// data-preset attribute.
package main

import (
	"os"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/control"
	"github.com/san-kum/wavesim/internal/logging"
	"github.com/san-kum/wavesim/internal/sim"
)

// browserKeys maps KeyboardEvent.key values to binding names.
var browserKeys = map[string]string{
	" ":          "space",
	"Escape":     "escape",
	"Tab":        "tab",
	"ArrowUp":    "up",
	"ArrowDown":  "down",
	"ArrowLeft":  "left",
	"ArrowRight": "right",
}

func main() {
	log := logging.NewWithWriter(logging.Config{Level: "info"}, os.Stderr)
	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", "wavesim")
	if canvas.IsNull() {
		log.Error("canvas #wavesim not found")
		return
	}

	name := canvas.Get("dataset").Get("preset")
	cfg := config.DefaultConfig()
	if name.Truthy() {
		if p := config.FindPreset(name.String()); p != nil {
			cfg = p
		} else {
			log.Warn("unknown preset, using default", zap.String("preset", name.String()))
		}
	}

	s, err := sim.New(cfg, sim.WithLogger(log))
	if err != nil {
		log.Error("simulation setup failed", zap.Error(err))
		return
	}

	frame := s.NewFrame()
	w, h := frame.Bounds().Dx(), frame.Bounds().Dy()
	canvas.Set("width", w)
	canvas.Set("height", h)
	ctx := canvas.Call("getContext", "2d")
	buf := js.Global().Get("Uint8ClampedArray").New(len(frame.Pix))
	img := js.Global().Get("ImageData").New(buf, w, h)

	panel := control.NewPanel(s.ParamNames())
	onKey := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := args[0]
		key := ev.Get("key").String()
		if n, ok := browserKeys[key]; ok {
			key = n
		}
		a := control.Lookup(key)
		if a == control.ActionNone {
			return nil
		}
		ev.Call("preventDefault")
		params := s.Solver().GetParams()
		if cmd, ok := panel.Command(a, params, s.Params().Palette, ev.Get("shiftKey").Bool()); ok {
			s.Send(cmd)
		}
		return nil
	})
	doc.Call("addEventListener", "keydown", onKey)

	var loop js.Func
	loop = js.FuncOf(func(this js.Value, args []js.Value) any {
		s.Drain()
		s.Tick(frame)
		js.CopyBytesToJS(buf, frame.Pix)
		ctx.Call("putImageData", img, 0, 0)
		js.Global().Call("requestAnimationFrame", loop)
		return nil
	})
	js.Global().Call("requestAnimationFrame", loop)
	log.Info("wasm host started", zap.String("solver", cfg.Solver), zap.Int("width", w), zap.Int("height", h))

	select {}
}
