// Package realtime implementa el núcleo de fan-out de eventos en proceso:
// canales con nombre, eventos con nombre y suscriptores con buffer acotado.
// Entrega at-least-once a los suscriptores conectados; nada para los
// desconectados (fire-and-forget, el polling del cliente cubre los huecos).
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultBufferSize buffer por suscriptor si no se configura otro.
const DefaultBufferSize = 16

// Event mensaje entregado a los suscriptores de un canal.
type Event struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data"`
}

// Subscription suscripción viva a un canal. El dueño debe llamar Close
// de forma determinista al terminar (bind-on-mount, unbind-on-unmount).
type Subscription struct {
	C       <-chan Event
	hub     *Hub
	channel string
	ch      chan Event
	once    sync.Once
}

// Close da de baja la suscripción y cierra el canal de entrega.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
		close(s.ch)
	})
}

// Hub registro de suscriptores por canal con fan-out sin bloqueo.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]map[*Subscription]struct{}
	bufSize int
}

// NewHub construye el hub. bufSize <= 0 usa DefaultBufferSize.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Hub{
		subs:    make(map[string]map[*Subscription]struct{}),
		bufSize: bufSize,
	}
}

// Subscribe registra un suscriptor del canal y devuelve la suscripción.
func (h *Hub) Subscribe(channel string) *Subscription {
	ch := make(chan Event, h.bufSize)
	sub := &Subscription{C: ch, hub: h, channel: channel, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[channel]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[channel] = set
	}
	set[sub] = struct{}{}
	return sub
}

// Publish serializa el payload y lo entrega a todos los suscriptores del
// canal. El envío nunca bloquea: si el buffer de un suscriptor está lleno,
// ese evento se descarta para ese suscriptor (el contrato es best-effort y
// el cliente tiene polling como red de seguridad).
func (h *Hub) Publish(channel, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Str("event", event).Msg("realtime: payload no serializable")
		return
	}
	ev := Event{Channel: channel, Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[channel] {
		select {
		case sub.ch <- ev:
		default:
			log.Warn().Str("channel", channel).Str("event", event).Msg("realtime: suscriptor lento, evento descartado")
		}
	}
}

// SubscriberCount suscriptores actuales del canal (para tests y métricas de log).
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[channel])
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[sub.channel]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.channel)
	}
}
