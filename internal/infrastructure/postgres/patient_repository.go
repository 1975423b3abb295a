package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medisuite/consultorio-api/internal/domain"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

var _ repository.PatientRepository = (*PatientRepo)(nil)

// PatientRepo implementación del puerto PatientRepository. Toda consulta
// filtra por doctor_id: un paciente de otro tenant es indistinguible de uno
// inexistente.
type PatientRepo struct {
	q Querier
}

// NewPatientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

const patientColumns = `id, doctor_id, first_name, last_name, birth_date, sex, phone, email, address, created_at, updated_at`

// Create persiste un paciente nuevo.
func (r *PatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.DoctorID, p.FirstName, p.LastName, p.BirthDate, p.Sex,
		p.Phone, p.Email, p.Address, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

// List pagina los pacientes del tenant, del más reciente al más antiguo.
// search aplica substring case-insensitive sobre nombre O apellido.
func (r *PatientRepo) List(ctx context.Context, teamID, search string, limit, offset int) ([]*entity.Patient, int, error) {
	where := `WHERE doctor_id = $1`
	args := []interface{}{teamID}
	if search != "" {
		where += ` AND (first_name ILIKE $2 OR last_name ILIKE $2)`
		args = append(args, likePattern(search))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM patients `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM patients %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		patientColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var list []*entity.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// GetByID obtiene un paciente del tenant; nil si no existe.
func (r *PatientRepo) GetByID(ctx context.Context, teamID, id string) (*entity.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE doctor_id = $1 AND id = $2`
	row := r.q.QueryRow(ctx, query, teamID, id)
	p, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

// Detail carga el paciente con citas, recetas, intervenciones y estudios.
func (r *PatientRepo) Detail(ctx context.Context, teamID, id string) (*entity.PatientDetail, error) {
	p, err := r.GetByID(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	d := &entity.PatientDetail{Patient: *p}
	if d.Appointments, err = r.appointments(ctx, id); err != nil {
		return nil, err
	}
	if d.Prescriptions, err = r.prescriptions(ctx, id); err != nil {
		return nil, err
	}
	if d.Operations, err = r.operations(ctx, id); err != nil {
		return nil, err
	}
	if d.Xrays, err = r.xrays(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

// Update guarda los cambios del paciente. ErrNotFound si no pertenece al tenant.
func (r *PatientRepo) Update(ctx context.Context, p *entity.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $3, last_name = $4, birth_date = $5, sex = $6,
		    phone = $7, email = $8, address = $9, updated_at = $10
		WHERE doctor_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		p.DoctorID, p.ID, p.FirstName, p.LastName, p.BirthDate, p.Sex,
		p.Phone, p.Email, p.Address, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el paciente del tenant. ErrNotFound si no existe.
func (r *PatientRepo) Delete(ctx context.Context, teamID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM patients WHERE doctor_id = $1 AND id = $2`, teamID, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Tiny proyección mínima nombre/apellido.
func (r *PatientRepo) Tiny(ctx context.Context, teamID, id string) (string, string, error) {
	query := `SELECT first_name, last_name FROM patients WHERE doctor_id = $1 AND id = $2`
	var first, last string
	err := r.q.QueryRow(ctx, query, teamID, id).Scan(&first, &last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", domain.ErrNotFound
		}
		return "", "", fmt.Errorf("tiny patient: %w", err)
	}
	return first, last, nil
}

// SearchNames autocompletado para la sala de espera: pacientes del tenant
// cuyo nombre o apellido contiene q.
func (r *PatientRepo) SearchNames(ctx context.Context, teamID, q string, limit int) ([]*entity.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE doctor_id = $1 AND (first_name ILIKE $2 OR last_name ILIKE $2)
		ORDER BY last_name, first_name
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, teamID, likePattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	defer rows.Close()

	var list []*entity.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetPrescription receta del paciente, scoped por tenant a través del paciente.
func (r *PatientRepo) GetPrescription(ctx context.Context, teamID, patientID, prescriptionID string) (*entity.Prescription, error) {
	query := `
		SELECT pr.id, pr.patient_id, pr.issued_at, pr.content, pr.created_at
		FROM prescriptions pr
		JOIN patients pa ON pa.id = pr.patient_id
		WHERE pa.doctor_id = $1 AND pr.patient_id = $2 AND pr.id = $3`
	var pr entity.Prescription
	err := r.q.QueryRow(ctx, query, teamID, patientID, prescriptionID).
		Scan(&pr.ID, &pr.PatientID, &pr.IssuedAt, &pr.Content, &pr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get prescription: %w", err)
	}
	return &pr, nil
}

func (r *PatientRepo) appointments(ctx context.Context, patientID string) ([]entity.Appointment, error) {
	query := `
		SELECT id, patient_id, scheduled_at, reason, fee, created_at
		FROM appointments WHERE patient_id = $1 ORDER BY scheduled_at DESC`
	rows, err := r.q.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()
	var list []entity.Appointment
	for rows.Next() {
		var a entity.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.ScheduledAt, &a.Reason, &a.Fee, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *PatientRepo) prescriptions(ctx context.Context, patientID string) ([]entity.Prescription, error) {
	query := `
		SELECT id, patient_id, issued_at, content, created_at
		FROM prescriptions WHERE patient_id = $1 ORDER BY issued_at DESC`
	rows, err := r.q.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()
	var list []entity.Prescription
	for rows.Next() {
		var p entity.Prescription
		if err := rows.Scan(&p.ID, &p.PatientID, &p.IssuedAt, &p.Content, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prescription: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PatientRepo) operations(ctx context.Context, patientID string) ([]entity.Operation, error) {
	query := `
		SELECT id, patient_id, performed_at, kind, created_at
		FROM operations WHERE patient_id = $1 ORDER BY performed_at DESC`
	rows, err := r.q.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()
	var list []entity.Operation
	for rows.Next() {
		var o entity.Operation
		if err := rows.Scan(&o.ID, &o.PatientID, &o.PerformedAt, &o.Kind, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range list {
		details, err := r.operationDetails(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Details = details
	}
	return list, nil
}

func (r *PatientRepo) operationDetails(ctx context.Context, operationID string) ([]entity.OperationDetail, error) {
	query := `SELECT id, operation_id, description FROM operation_details WHERE operation_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, operationID)
	if err != nil {
		return nil, fmt.Errorf("list operation details: %w", err)
	}
	defer rows.Close()
	var list []entity.OperationDetail
	for rows.Next() {
		var d entity.OperationDetail
		if err := rows.Scan(&d.ID, &d.OperationID, &d.Description); err != nil {
			return nil, fmt.Errorf("scan operation detail: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *PatientRepo) xrays(ctx context.Context, patientID string) ([]entity.Xray, error) {
	query := `
		SELECT id, patient_id, kind, taken_at, image_url, created_at
		FROM xrays WHERE patient_id = $1 ORDER BY taken_at DESC`
	rows, err := r.q.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("list xrays: %w", err)
	}
	defer rows.Close()
	var list []entity.Xray
	for rows.Next() {
		var x entity.Xray
		if err := rows.Scan(&x.ID, &x.PatientID, &x.Kind, &x.TakenAt, &x.ImageURL, &x.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan xray: %w", err)
		}
		list = append(list, x)
	}
	return list, rows.Err()
}

func scanPatient(row pgx.Row) (*entity.Patient, error) {
	var p entity.Patient
	err := row.Scan(
		&p.ID, &p.DoctorID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Sex,
		&p.Phone, &p.Email, &p.Address, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
