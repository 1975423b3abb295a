package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/medisuite/consultorio-api/internal/realtime"
)

// controlMessage mensaje de control del cliente WebSocket.
type controlMessage struct {
	Action  string `json:"action"` // subscribe | unsubscribe
	Channel string `json:"channel"`
}

// RealtimeHandler expone el hub por WebSocket. Cada conexión mantiene sus
// propias suscripciones; los eventos salen como frames {channel, event, data}.
type RealtimeHandler struct {
	hub *realtime.Hub
}

// NewRealtimeHandler construye el handler.
func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Upgrade exige el handshake WebSocket en la ruta /ws.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve atiende una conexión: suscripción inicial por query (?channel=...),
// mensajes de control subscribe/unsubscribe y fan-out de eventos del hub.
func (h *RealtimeHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		subs := make(map[string]*realtime.Subscription)
		defer func() {
			for _, sub := range subs {
				sub.Close()
			}
		}()

		done := make(chan struct{})
		defer close(done)

		// Fan-in: los pumps por suscripción convergen en un único canal de
		// salida; sólo esta goroutine escribe en la conexión.
		out := make(chan realtime.Event)
		attach := func(channel string) {
			if _, ok := subs[channel]; ok || channel == "" {
				return
			}
			sub := h.hub.Subscribe(channel)
			subs[channel] = sub
			go func() {
				for ev := range sub.C {
					select {
					case out <- ev:
					case <-done:
						return
					}
				}
			}()
		}
		detach := func(channel string) {
			if sub, ok := subs[channel]; ok {
				sub.Close()
				delete(subs, channel)
			}
		}

		attach(conn.Query("channel"))

		// Lector de mensajes de control; se cierra junto con la conexión.
		ctrl := make(chan controlMessage)
		readErr := make(chan error, 1)
		go func() {
			for {
				var msg controlMessage
				if err := conn.ReadJSON(&msg); err != nil {
					readErr <- err
					return
				}
				select {
				case ctrl <- msg:
				case <-done:
					return
				}
			}
		}()

		for {
			select {
			case ev := <-out:
				if err := conn.WriteJSON(ev); err != nil {
					log.Debug().Err(err).Msg("realtime: conexión ws cerrada en escritura")
					return
				}
			case msg := <-ctrl:
				switch msg.Action {
				case "subscribe":
					attach(msg.Channel)
				case "unsubscribe":
					detach(msg.Channel)
				}
			case <-readErr:
				return
			}
		}
	})
}
