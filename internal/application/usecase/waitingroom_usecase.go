package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medisuite/consultorio-api/internal/application/access"
	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/internal/application/ports"
	"github.com/medisuite/consultorio-api/internal/domain"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

// Canal y evento realtime del tablero: los dashboards conectados se
// suscriben a este par para refrescar sin polling.
const (
	WaitingRoomChannel      = "test-channel"
	PatientAddedEvent       = "patient-added"
	WaitingRoomClearedEvent = "waiting-room-cleared"
)

// WaitingRoomUseCase contador de sala de espera por tenant con bitácora de
// transiciones. Las mutaciones son transaccionales; la publicación realtime
// es best-effort y queda fuera de la transacción.
type WaitingRoomUseCase struct {
	gate      *access.Gate
	tx        WaitingTxRunner
	repo      repository.WaitingRoomRepository
	patients  repository.PatientRepository
	publisher ports.EventPublisher
}

// NewWaitingRoomUseCase construye el caso de uso.
func NewWaitingRoomUseCase(gate *access.Gate, tx WaitingTxRunner, repo repository.WaitingRoomRepository, patients repository.PatientRepository, publisher ports.EventPublisher) *WaitingRoomUseCase {
	return &WaitingRoomUseCase{gate: gate, tx: tx, repo: repo, patients: patients, publisher: publisher}
}

// Get contador actual del tenant. Devuelve cero si la sala aún no existe.
func (uc *WaitingRoomUseCase) Get(ctx context.Context, id access.Identity) (*dto.WaitingRoomResponse, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id)
	if err != nil {
		return nil, err
	}
	room, err := uc.repo.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return &dto.WaitingRoomResponse{Count: 0}, nil
	}
	return &dto.WaitingRoomResponse{Count: room.PatientCount, UpdatedAt: room.UpdatedAt}, nil
}

// Increment agrega un paciente a la lista de espera e incrementa el contador
// de forma atómica en el store. Tras el commit publica `patient-added` en el
// canal del tablero; un fallo de publicación no revierte nada.
func (uc *WaitingRoomUseCase) Increment(ctx context.Context, id access.Identity, in dto.IncrementRequest) (*dto.WaitingRoomResponse, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.PatientID == "" {
		return nil, domain.ErrInvalidInput
	}
	// El paciente debe pertenecer al tenant; de otro modo se comporta como inexistente.
	patient, err := uc.patients.GetByID(ctx, teamID, in.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrNotFound
	}

	var newCount int
	err = uc.tx.RunWaitingRoom(ctx, func(rooms repository.WaitingRoomRepository) error {
		room, err := rooms.GetOrCreate(ctx, teamID)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := rooms.AddEntry(ctx, &entity.WaitingRoomEntry{
			ID:            uuid.New().String(),
			WaitingRoomID: room.ID,
			PatientID:     patient.ID,
			Status:        entity.WaitingStatusWaiting,
			CreatedAt:     now,
		}); err != nil {
			return err
		}
		newCount, err = rooms.IncrementCount(ctx, room.ID)
		if err != nil {
			return err
		}
		return rooms.AppendLog(ctx, &entity.WaitingRoomLog{
			WaitingRoomID:   room.ID,
			Status:          entity.WaitingStatusWaiting,
			StatusChangedAt: now,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	})
	if err != nil {
		return nil, err
	}

	// Fan-out a los tableros conectados, desacoplado del request.
	go uc.publisher.Publish(WaitingRoomChannel, PatientAddedEvent, dto.PatientAddedEvent{
		PatientID: patient.ID,
		Count:     newCount,
	})

	return &dto.WaitingRoomResponse{Count: newCount, UpdatedAt: time.Now()}, nil
}

// Clear pone el contador a cero, vacía las entradas y registra la transición.
func (uc *WaitingRoomUseCase) Clear(ctx context.Context, id access.Identity) (*dto.WaitingRoomResponse, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id)
	if err != nil {
		return nil, err
	}
	room, err := uc.repo.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		// Nada que limpiar; el contador ya es cero.
		return &dto.WaitingRoomResponse{Count: 0}, nil
	}

	err = uc.tx.RunWaitingRoom(ctx, func(rooms repository.WaitingRoomRepository) error {
		if _, err := rooms.ResetCount(ctx, room.ID); err != nil {
			return err
		}
		if err := rooms.ClearEntries(ctx, room.ID); err != nil {
			return err
		}
		now := time.Now()
		return rooms.AppendLog(ctx, &entity.WaitingRoomLog{
			WaitingRoomID:   room.ID,
			Status:          entity.WaitingStatusCleared,
			StatusChangedAt: now,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	})
	if err != nil {
		return nil, err
	}

	go uc.publisher.Publish(WaitingRoomChannel, WaitingRoomClearedEvent, dto.WaitingRoomEvent{Count: 0})

	log.Info().Str("team_id", teamID).Msg("sala de espera reiniciada")
	return &dto.WaitingRoomResponse{Count: 0, UpdatedAt: time.Now()}, nil
}

// Entries pacientes actualmente en espera, con nombre resuelto.
func (uc *WaitingRoomUseCase) Entries(ctx context.Context, id access.Identity) ([]dto.WaitingEntryResponse, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id)
	if err != nil {
		return nil, err
	}
	room, err := uc.repo.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return []dto.WaitingEntryResponse{}, nil
	}
	entries, err := uc.repo.ListEntries(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WaitingEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.WaitingEntryResponse{
			PatientID:   e.PatientID,
			PatientName: e.PatientName,
			Since:       e.CreatedAt,
		})
	}
	return out, nil
}
