package ports

// EventPublisher publica eventos con nombre sobre canales con nombre hacia
// los suscriptores conectados. Entrega best-effort y no transaccional: un
// fallo de publicación nunca revierte la mutación de datos que lo originó.
type EventPublisher interface {
	Publish(channel, event string, payload interface{})
}
