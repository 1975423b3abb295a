package realtime_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisuite/consultorio-api/pkg/realtime"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor ws de test: registra los comandos de control recibidos y permite
// empujar frames al cliente.
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	srv *httptest.Server

	mu       sync.Mutex
	conn     *gws.Conn
	commands []map[string]string
	ready    chan struct{}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{ready: make(chan struct{})}
	upgrader := gws.Upgrader{}
	ts.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		ts.mu.Lock()
		ts.conn = conn
		ts.mu.Unlock()
		close(ts.ready)
		for {
			var cmd map[string]string
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			ts.mu.Lock()
			ts.commands = append(ts.commands, cmd)
			ts.mu.Unlock()
		}
	}))
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) url() string {
	return "ws" + strings.TrimPrefix(ts.srv.URL, "http")
}

// push envía un frame {channel, event, data} al cliente conectado.
func (ts *testServer) push(t *testing.T, channel, event string, data interface{}) {
	t.Helper()
	select {
	case <-ts.ready:
	case <-time.After(2 * time.Second):
		t.Fatal("ningún cliente conectado")
	}
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	ts.mu.Lock()
	defer ts.mu.Unlock()
	require.NoError(t, ts.conn.WriteJSON(map[string]interface{}{
		"channel": channel, "event": event, "data": json.RawMessage(raw),
	}))
}

// waitCommands espera hasta ver n comandos de control y los devuelve.
func (ts *testServer) waitCommands(t *testing.T, n int) []map[string]string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ts.mu.Lock()
		if len(ts.commands) >= n {
			out := append([]map[string]string(nil), ts.commands...)
			ts.mu.Unlock()
			return out
		}
		ts.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("no llegaron %d comandos de control", n)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Subscribe y despacho
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_SubscribeRecibeEventos(t *testing.T) {
	ts := newTestServer(t)
	client, err := realtime.Dial(context.Background(), ts.url())
	require.NoError(t, err)
	defer client.Close()

	got := make(chan json.RawMessage, 1)
	unsubscribe, err := client.Subscribe("test-channel", "patient-added", func(data json.RawMessage) {
		got <- data
	})
	require.NoError(t, err)
	defer unsubscribe()

	// La primera suscripción del canal envía el comando subscribe.
	cmds := ts.waitCommands(t, 1)
	assert.Equal(t, "subscribe", cmds[0]["action"])
	assert.Equal(t, "test-channel", cmds[0]["channel"])

	ts.push(t, "test-channel", "patient-added", map[string]int{"count": 4})

	select {
	case data := <-got:
		var p struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(data, &p))
		assert.Equal(t, 4, p.Count)
	case <-time.After(2 * time.Second):
		t.Fatal("el handler no recibió el evento")
	}
}

// Un evento de otro nombre o canal no dispara el handler.
func TestClient_FiltraPorCanalYEvento(t *testing.T) {
	ts := newTestServer(t)
	client, err := realtime.Dial(context.Background(), ts.url())
	require.NoError(t, err)
	defer client.Close()

	calls := make(chan struct{}, 4)
	unsubscribe, err := client.Subscribe("test-channel", "patient-added", func(json.RawMessage) {
		calls <- struct{}{}
	})
	require.NoError(t, err)
	defer unsubscribe()
	ts.waitCommands(t, 1)

	ts.push(t, "test-channel", "otro-evento", map[string]int{})
	ts.push(t, "otro-canal", "patient-added", map[string]int{})
	ts.push(t, "test-channel", "patient-added", map[string]int{})

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("el evento correcto no llegó")
	}
	select {
	case <-calls:
		t.Fatal("sólo el par (canal, evento) suscrito debe despachar")
	case <-time.After(100 * time.Millisecond):
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida de la baja
// ──────────────────────────────────────────────────────────────────────────────

// La última baja del canal envía unsubscribe; repetir la baja es inocuo.
func TestClient_UnsubscribeDeterminista(t *testing.T) {
	ts := newTestServer(t)
	client, err := realtime.Dial(context.Background(), ts.url())
	require.NoError(t, err)
	defer client.Close()

	u1, err := client.Subscribe("test-channel", "patient-added", func(json.RawMessage) {})
	require.NoError(t, err)
	u2, err := client.Subscribe("test-channel", "patient-added", func(json.RawMessage) {})
	require.NoError(t, err)

	// Sólo un subscribe aunque haya dos handlers del mismo canal.
	cmds := ts.waitCommands(t, 1)
	require.Len(t, cmds, 1)

	u1()
	u1() // idempotente
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, ts.waitCommands(t, 1), 1, "con un handler vivo no se envía unsubscribe")

	u2()
	cmds = ts.waitCommands(t, 2)
	assert.Equal(t, "unsubscribe", cmds[1]["action"])
	assert.Equal(t, "test-channel", cmds[1]["channel"])
}

func TestClient_SubscribeInvalido(t *testing.T) {
	ts := newTestServer(t)
	client, err := realtime.Dial(context.Background(), ts.url())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Subscribe("", "patient-added", func(json.RawMessage) {})
	assert.Error(t, err)
	_, err = client.Subscribe("test-channel", "", func(json.RawMessage) {})
	assert.Error(t, err)
	_, err = client.Subscribe("test-channel", "patient-added", nil)
	assert.Error(t, err)
}

func TestClient_CloseDetieneElDespacho(t *testing.T) {
	ts := newTestServer(t)
	client, err := realtime.Dial(context.Background(), ts.url())
	require.NoError(t, err)

	require.NoError(t, client.Close())

	select {
	case <-client.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done debe cerrarse tras Close")
	}

	// Suscribirse sobre un cliente cerrado falla de inmediato.
	_, err = client.Subscribe("test-channel", "patient-added", func(json.RawMessage) {})
	assert.Error(t, err)
}
