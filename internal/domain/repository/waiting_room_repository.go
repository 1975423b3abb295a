package repository

import (
	"context"

	"github.com/medisuite/consultorio-api/internal/domain/entity"
)

// WaitingRoomRepository puerto de persistencia para la sala de espera.
type WaitingRoomRepository interface {
	// GetOrCreate devuelve la sala del tenant, creándola con contador cero
	// si no existe todavía.
	GetOrCreate(ctx context.Context, teamID string) (*entity.WaitingRoom, error)
	Get(ctx context.Context, teamID string) (*entity.WaitingRoom, error)
	// IncrementCount suma uno de forma atómica en el store y devuelve el
	// nuevo valor (requisito de serialización: sin read-modify-write en Go).
	IncrementCount(ctx context.Context, roomID string) (int, error)
	// ResetCount pone el contador a cero y devuelve el valor previo.
	ResetCount(ctx context.Context, roomID string) (int, error)
	AddEntry(ctx context.Context, entry *entity.WaitingRoomEntry) error
	ClearEntries(ctx context.Context, roomID string) error
	// ListEntries entradas en espera con el nombre del paciente resuelto.
	ListEntries(ctx context.Context, roomID string) ([]*entity.WaitingRoomEntry, error)
	// AppendLog registra una transición en la bitácora append-only.
	AppendLog(ctx context.Context, log *entity.WaitingRoomLog) error
}
