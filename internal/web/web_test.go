package web

import (
	"context"
	"encoding/json"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/sim"
)

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		in   string
		want sim.Command
	}{
		{`{"type":"pause"}`, sim.Pause()},
		{`{"type":"toggle"}`, sim.TogglePause()},
		{`{"type":"reset"}`, sim.Reset()},
		{`{"type":"measure"}`, sim.Measure()},
		{`{"type":"set","name":"speed","value":0.3}`, sim.SetParam("speed", 0.3)},
		{`{"type":"palette","name":"ice"}`, sim.SetPalette("ice")},
	}
	for _, tt := range tests {
		got, err := DecodeCommand([]byte(tt.in))
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{`not json`, `{"type":"explode"}`, `{"type":"set","value":1}`} {
		_, err := DecodeCommand([]byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Pix[5] = 200
	data := EncodeFrame(nil, img)
	assert.Len(t, data, 8+3*2*4)
	assert.Equal(t, byte(200), data[8+5])

	w, h, err := DecodeFrameHeader(data)
	require.NoError(t, err)
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)

	_, _, err = DecodeFrameHeader(data[:10])
	assert.Error(t, err)
}

func TestCollectorsObserve(t *testing.T) {
	srv, col := newTestServer(t)
	_, err := srv.sim.RunSteps(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, 40.0, testutil.ToFloat64(col.StepsTotal))
	assert.Greater(t, testutil.ToFloat64(col.MaxAmplitude), 0.0)
}

func newTestServer(t *testing.T) (*Server, *Collectors) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Wave.Width, cfg.Wave.Height = 32, 24
	cfg.Wave.BarrierRow = 10
	cfg.Wave.SourceRow = 3
	cfg.Wave.SlitSeparation = 6
	cfg.Render.Scale = 1
	col := NewCollectors()
	s, err := sim.New(cfg, sim.WithObserver(col))
	require.NoError(t, err)
	return New(s, col, Options{FPS: 200}), col
}

func TestStateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	var st StateMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "state", st.Type)
	assert.Equal(t, 32, st.Width)
	assert.Contains(t, st.Values, "speed")
}

func TestIndexAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "<canvas")

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "wavesim_clients")
}

func TestWebsocketStreamsAndControls(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(ControlMessage{Type: "pause"}))

	var gotFrame, gotPaused bool
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && !(gotFrame && gotPaused) {
		require.NoError(t, conn.SetReadDeadline(deadline))
		kind, data, err := conn.ReadMessage()
		require.NoError(t, err)
		switch kind {
		case websocket.BinaryMessage:
			w, h, err := DecodeFrameHeader(data)
			require.NoError(t, err)
			assert.Equal(t, 32, w)
			assert.Equal(t, 24, h)
			gotFrame = true
		case websocket.TextMessage:
			var st StateMessage
			require.NoError(t, json.Unmarshal(data, &st))
			if st.Params.Paused {
				gotPaused = true
			}
		}
	}
	assert.True(t, gotFrame, "no frame received")
	assert.True(t, gotPaused, "pause never applied")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server loop did not stop")
	}
	assert.Equal(t, 0, srv.hub.len())
}
