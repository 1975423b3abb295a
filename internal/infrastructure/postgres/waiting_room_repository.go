package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medisuite/consultorio-api/internal/domain/entity"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

var _ repository.WaitingRoomRepository = (*WaitingRoomRepo)(nil)

// WaitingRoomRepo implementación del puerto WaitingRoomRepository. El
// incremento y el reset del contador se hacen en SQL, nunca leyendo el valor
// en Go: dos requests concurrentes jamás pierden un incremento.
type WaitingRoomRepo struct {
	q Querier
}

// NewWaitingRoomRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWaitingRoomRepository(q Querier) *WaitingRoomRepo {
	return &WaitingRoomRepo{q: q}
}

// GetOrCreate devuelve la sala del tenant, creándola con contador cero si aún
// no existe. Idempotente bajo concurrencia vía ON CONFLICT.
func (r *WaitingRoomRepo) GetOrCreate(ctx context.Context, teamID string) (*entity.WaitingRoom, error) {
	query := `
		INSERT INTO waiting_rooms (id, doctor_id, patient_count, updated_at)
		VALUES (gen_random_uuid(), $1, 0, now())
		ON CONFLICT (doctor_id) DO UPDATE SET doctor_id = EXCLUDED.doctor_id
		RETURNING id, doctor_id, patient_count, updated_at`
	var room entity.WaitingRoom
	err := r.q.QueryRow(ctx, query, teamID).
		Scan(&room.ID, &room.DoctorID, &room.PatientCount, &room.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create waiting room: %w", err)
	}
	return &room, nil
}

// Get sala del tenant; nil si nunca se usó.
func (r *WaitingRoomRepo) Get(ctx context.Context, teamID string) (*entity.WaitingRoom, error) {
	query := `SELECT id, doctor_id, patient_count, updated_at FROM waiting_rooms WHERE doctor_id = $1`
	var room entity.WaitingRoom
	err := r.q.QueryRow(ctx, query, teamID).
		Scan(&room.ID, &room.DoctorID, &room.PatientCount, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get waiting room: %w", err)
	}
	return &room, nil
}

// IncrementCount suma uno de forma atómica y devuelve el nuevo valor.
func (r *WaitingRoomRepo) IncrementCount(ctx context.Context, roomID string) (int, error) {
	query := `
		UPDATE waiting_rooms
		SET patient_count = patient_count + 1, updated_at = now()
		WHERE id = $1
		RETURNING patient_count`
	var count int
	if err := r.q.QueryRow(ctx, query, roomID).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment waiting room: %w", err)
	}
	return count, nil
}

// ResetCount pone el contador a cero y devuelve el valor previo.
func (r *WaitingRoomRepo) ResetCount(ctx context.Context, roomID string) (int, error) {
	query := `
		UPDATE waiting_rooms w
		SET patient_count = 0, updated_at = now()
		FROM (SELECT patient_count FROM waiting_rooms WHERE id = $1 FOR UPDATE) prev
		WHERE w.id = $1
		RETURNING prev.patient_count`
	var previous int
	if err := r.q.QueryRow(ctx, query, roomID).Scan(&previous); err != nil {
		return 0, fmt.Errorf("reset waiting room: %w", err)
	}
	return previous, nil
}

// AddEntry registra un paciente listado en la sala.
func (r *WaitingRoomRepo) AddEntry(ctx context.Context, entry *entity.WaitingRoomEntry) error {
	query := `
		INSERT INTO waiting_room_entries (id, waiting_room_id, patient_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, entry.ID, entry.WaitingRoomID, entry.PatientID, entry.Status, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert waiting room entry: %w", err)
	}
	return nil
}

// ClearEntries elimina todas las entradas activas de la sala.
func (r *WaitingRoomRepo) ClearEntries(ctx context.Context, roomID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM waiting_room_entries WHERE waiting_room_id = $1`, roomID)
	if err != nil {
		return fmt.Errorf("clear waiting room entries: %w", err)
	}
	return nil
}

// ListEntries entradas en espera con el nombre del paciente resuelto, en
// orden de llegada.
func (r *WaitingRoomRepo) ListEntries(ctx context.Context, roomID string) ([]*entity.WaitingRoomEntry, error) {
	query := `
		SELECT e.id, e.waiting_room_id, e.patient_id, e.status, e.created_at,
		       p.last_name || ' ' || p.first_name
		FROM waiting_room_entries e
		JOIN patients p ON p.id = e.patient_id
		WHERE e.waiting_room_id = $1
		ORDER BY e.created_at`
	rows, err := r.q.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("list waiting room entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.WaitingRoomEntry
	for rows.Next() {
		var e entity.WaitingRoomEntry
		if err := rows.Scan(&e.ID, &e.WaitingRoomID, &e.PatientID, &e.Status, &e.CreatedAt, &e.PatientName); err != nil {
			return nil, fmt.Errorf("scan waiting room entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// AppendLog registra una transición en la bitácora append-only.
func (r *WaitingRoomRepo) AppendLog(ctx context.Context, log *entity.WaitingRoomLog) error {
	query := `
		INSERT INTO waiting_room_logs (waiting_room_id, status, status_changed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, log.WaitingRoomID, log.Status, log.StatusChangedAt, log.CreatedAt, log.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert waiting room log: %w", err)
	}
	return nil
}
