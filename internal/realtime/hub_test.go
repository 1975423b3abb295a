package realtime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisuite/consultorio-api/internal/realtime"
)

type payload struct {
	Count int `json:"count"`
}

// recv espera un evento de la suscripción con timeout.
func recv(t *testing.T, sub *realtime.Subscription) realtime.Event {
	t.Helper()
	select {
	case ev, ok := <-sub.C:
		require.True(t, ok, "la suscripción no debe estar cerrada")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout esperando evento")
		return realtime.Event{}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Fan-out
// ──────────────────────────────────────────────────────────────────────────────

func TestHub_EntregaATodosLosSuscriptoresDelCanal(t *testing.T) {
	hub := realtime.NewHub(0)
	s1 := hub.Subscribe("test-channel")
	defer s1.Close()
	s2 := hub.Subscribe("test-channel")
	defer s2.Close()
	otro := hub.Subscribe("otro-canal")
	defer otro.Close()

	hub.Publish("test-channel", "patient-added", payload{Count: 3})

	for _, sub := range []*realtime.Subscription{s1, s2} {
		ev := recv(t, sub)
		assert.Equal(t, "test-channel", ev.Channel)
		assert.Equal(t, "patient-added", ev.Event)
		var p payload
		require.NoError(t, json.Unmarshal(ev.Data, &p))
		assert.Equal(t, 3, p.Count)
	}

	// El canal ajeno no recibe nada.
	select {
	case <-otro.C:
		t.Fatal("el suscriptor de otro canal no debe recibir el evento")
	default:
	}
}

func TestHub_SinSuscriptores_NoBloquea(t *testing.T) {
	hub := realtime.NewHub(0)
	// Publicar sin nadie escuchando es un no-op.
	hub.Publish("test-channel", "patient-added", payload{Count: 1})
	assert.Equal(t, 0, hub.SubscriberCount("test-channel"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Buffer acotado: el suscriptor lento pierde eventos, el publicador no espera.
// ──────────────────────────────────────────────────────────────────────────────

func TestHub_SuscriptorLento_DescartaSinBloquear(t *testing.T) {
	hub := realtime.NewHub(2)
	sub := hub.Subscribe("test-channel")
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			hub.Publish("test-channel", "patient-added", payload{Count: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish no debe bloquear aunque el buffer esté lleno")
	}

	// Quedan exactamente los que caben en el buffer.
	received := 0
	for {
		select {
		case <-sub.C:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 2, received)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida de la suscripción
// ──────────────────────────────────────────────────────────────────────────────

func TestHub_Close_DaDeBajaYCierraElCanal(t *testing.T) {
	hub := realtime.NewHub(0)
	sub := hub.Subscribe("test-channel")
	require.Equal(t, 1, hub.SubscriberCount("test-channel"))

	sub.Close()
	assert.Equal(t, 0, hub.SubscriberCount("test-channel"))

	_, ok := <-sub.C
	assert.False(t, ok, "el canal de entrega queda cerrado")

	// Close repetido es inocuo.
	sub.Close()
}

func TestHub_PublishTrasClose_NoEntrega(t *testing.T) {
	hub := realtime.NewHub(0)
	sub := hub.Subscribe("test-channel")
	sub.Close()

	hub.Publish("test-channel", "patient-added", payload{Count: 1})
	// Si la baja no fuera efectiva esto haría panic por envío a canal cerrado.
}

func TestHub_PayloadNoSerializable_SeIgnora(t *testing.T) {
	hub := realtime.NewHub(0)
	sub := hub.Subscribe("test-channel")
	defer sub.Close()

	hub.Publish("test-channel", "patient-added", make(chan int))

	select {
	case <-sub.C:
		t.Fatal("un payload no serializable no debe producir evento")
	case <-time.After(50 * time.Millisecond):
	}
}
