// Package realtime provee el cliente suscriptor del canal de eventos del
// servidor. El ciclo de vida es explícito: Subscribe devuelve una función de
// baja que el llamador posee y debe invocar de forma determinista.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// frame mensaje entrante del servidor: {channel, event, data}.
type frame struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data"`
}

// command mensaje de control hacia el servidor.
type command struct {
	Action  string `json:"action"` // subscribe | unsubscribe
	Channel string `json:"channel"`
}

// Handler callback invocado con el payload del evento.
type Handler func(data json.RawMessage)

type handlerEntry struct {
	id      uint64
	channel string
	event   string
	fn      Handler
}

// Client conexión websocket con despacho por (canal, evento).
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu       sync.Mutex
	nextID   uint64
	handlers map[string][]*handlerEntry // key: canal
	closed   bool

	done chan struct{}
}

// Dial abre la conexión y arranca la bomba de lectura.
// url típico: ws://host:puerto/ws (con el token en el query o header según despliegue).
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("realtime: dial %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	c := &Client{
		conn:     conn,
		handlers: make(map[string][]*handlerEntry),
		done:     make(chan struct{}),
	}
	go c.readPump()
	return c, nil
}

// Subscribe registra un handler para (canal, evento) y devuelve la función
// de baja. La primera suscripción de un canal envía el comando subscribe;
// la última baja envía unsubscribe. La baja es idempotente.
func (c *Client) Subscribe(channel, event string, handler Handler) (func(), error) {
	if channel == "" || event == "" || handler == nil {
		return nil, fmt.Errorf("realtime: canal, evento y handler son obligatorios")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("realtime: cliente cerrado")
	}
	c.nextID++
	entry := &handlerEntry{id: c.nextID, channel: channel, event: event, fn: handler}
	first := len(c.handlers[channel]) == 0
	c.handlers[channel] = append(c.handlers[channel], entry)
	c.mu.Unlock()

	if first {
		if err := c.send(command{Action: "subscribe", Channel: channel}); err != nil {
			c.removeEntry(entry)
			return nil, err
		}
	}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			last := c.removeEntry(entry)
			if last {
				// Baja best-effort; la conexión puede estar ya cerrada.
				_ = c.send(command{Action: "unsubscribe", Channel: channel})
			}
		})
	}
	return unsubscribe, nil
}

// Close cierra la conexión y detiene el despacho.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.writeMu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()

	err := c.conn.Close()
	<-c.done
	return err
}

// Done se cierra cuando la bomba de lectura termina (conexión caída o Close).
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) send(cmd command) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(cmd)
}

// removeEntry quita el handler y devuelve true si era el último del canal.
func (c *Client) removeEntry(entry *handlerEntry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.handlers[entry.channel]
	for i, e := range list {
		if e.id == entry.id {
			c.handlers[entry.channel] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(c.handlers[entry.channel]) == 0 {
		delete(c.handlers, entry.channel)
		return true
	}
	return false
}

// readPump lee frames y despacha a los handlers registrados. Los handlers se
// invocan secuencialmente en esta goroutine; deben ser baratos o delegar.
func (c *Client) readPump() {
	defer close(c.done)
	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			return
		}
		c.mu.Lock()
		var matched []Handler
		for _, e := range c.handlers[f.Channel] {
			if e.event == f.Event {
				matched = append(matched, e.fn)
			}
		}
		c.mu.Unlock()
		for _, fn := range matched {
			fn(f.Data)
		}
	}
}
