package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medisuite/consultorio-api/internal/application/auth"
	"github.com/medisuite/consultorio-api/internal/application/usecase"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

// El runner satisface los puertos transaccionales de la aplicación.
var (
	_ auth.TxRunner           = (*TxRunner)(nil)
	_ usecase.RoleTxRunner    = (*TxRunner)(nil)
	_ usecase.WaitingTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con los
// repositorios atados a la tx. Commit al retornar nil, Rollback en error.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunRegistration transacción del alta de cuenta: usuario + rol doctor +
// permisos + preferencias, o nada.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	users repository.UserRepository,
	roles repository.RoleRepository,
	prefs repository.PreferenceRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewUserRepository(q), NewRoleRepository(q), NewPreferenceRepository(q))
	})
}

// RunRoleGrant transacción de la concesión de acceso: clear-then-set de
// permisos del rol + asignación de rol único a la enfermera.
func (r *TxRunner) RunRoleGrant(ctx context.Context, fn func(roles repository.RoleRepository) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewRoleRepository(q))
	})
}

// RunWaitingRoom transacción de la sala de espera: entrada + contador + bitácora.
func (r *TxRunner) RunWaitingRoom(ctx context.Context, fn func(rooms repository.WaitingRoomRepository) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewWaitingRoomRepository(q))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
