package usecase_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medisuite/consultorio-api/internal/application/access"
	"github.com/medisuite/consultorio-api/internal/domain"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Identidades de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	doctorA = "00000000-0000-0000-0000-00000000000a"
	doctorB = "00000000-0000-0000-0000-00000000000b"
	nurseA  = "00000000-0000-0000-0000-0000000000a1"
)

func asDoctor(id string) access.Identity {
	return access.Identity{UserID: id, Role: entity.RoleDoctor}
}

func asNurse(nurseID, ownerID string) access.Identity {
	return access.Identity{UserID: nurseID, DoctorID: ownerID, Role: entity.RoleNurse}
}

// ──────────────────────────────────────────────────────────────────────────────
// Gate de test: los médicos siempre tienen el catálogo completo; las
// enfermeras los permisos que el test les configure.
// ──────────────────────────────────────────────────────────────────────────────

type fakePermSource struct {
	mu    sync.Mutex
	perms map[string][]string // key: userID
}

func newFakePermSource() *fakePermSource {
	return &fakePermSource{perms: make(map[string][]string)}
}

func (f *fakePermSource) grant(userID string, perms ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.perms[userID] = perms
}

func (f *fakePermSource) UserPermissions(_ context.Context, userID, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.perms[userID], nil
}

func newTestGate(src *fakePermSource) *access.Gate {
	src.grant(doctorA, entity.PermissionCatalog()...)
	src.grant(doctorB, entity.PermissionCatalog()...)
	return access.NewGate(src, access.NewMemoryCache())
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio de pacientes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[string]*entity.Patient // key: id
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[string]*entity.Patient)}
}

func (f *fakePatientRepo) Create(_ context.Context, p *entity.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.patients[p.ID] = &cp
	return nil
}

func (f *fakePatientRepo) List(_ context.Context, teamID, search string, limit, offset int) ([]*entity.Patient, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*entity.Patient
	for _, p := range f.patients {
		if p.DoctorID != teamID {
			continue
		}
		if search != "" && !matchesName(p, search) {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	// Orden: más reciente primero
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].CreatedAt.After(all[i].CreatedAt) {
				all[i], all[j] = all[j], all[i]
			}
		}
	}
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakePatientRepo) GetByID(_ context.Context, teamID, id string) (*entity.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok || p.DoctorID != teamID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePatientRepo) Detail(ctx context.Context, teamID, id string) (*entity.PatientDetail, error) {
	p, err := f.GetByID(ctx, teamID, id)
	if err != nil || p == nil {
		return nil, err
	}
	return &entity.PatientDetail{Patient: *p}, nil
}

func (f *fakePatientRepo) Update(_ context.Context, p *entity.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.patients[p.ID]
	if !ok || existing.DoctorID != p.DoctorID {
		return domain.ErrNotFound
	}
	cp := *p
	f.patients[p.ID] = &cp
	return nil
}

func (f *fakePatientRepo) Delete(_ context.Context, teamID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok || p.DoctorID != teamID {
		return domain.ErrNotFound
	}
	delete(f.patients, id)
	return nil
}

func (f *fakePatientRepo) Tiny(ctx context.Context, teamID, id string) (string, string, error) {
	p, err := f.GetByID(ctx, teamID, id)
	if err != nil {
		return "", "", err
	}
	if p == nil {
		return "", "", domain.ErrNotFound
	}
	return p.FirstName, p.LastName, nil
}

func (f *fakePatientRepo) SearchNames(_ context.Context, teamID, q string, limit int) ([]*entity.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Patient
	for _, p := range f.patients {
		if p.DoctorID != teamID || !matchesName(p, q) {
			continue
		}
		cp := *p
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakePatientRepo) GetPrescription(context.Context, string, string, string) (*entity.Prescription, error) {
	return nil, nil
}

func matchesName(p *entity.Patient, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.FirstName), q) ||
		strings.Contains(strings.ToLower(p.LastName), q)
}

// seed inserta un paciente directamente (sin pasar por el caso de uso).
func (f *fakePatientRepo) seed(teamID, first, last string) *entity.Patient {
	p := &entity.Patient{
		ID:        uuid.New().String(),
		DoctorID:  teamID,
		FirstName: first,
		LastName:  last,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patients[p.ID] = p
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio de roles en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeRoleRepo struct {
	mu        sync.Mutex
	roles     map[string]*entity.Role // key: role id
	rolePerms map[string][]string     // key: role id
	userRoles map[string]string       // key: user id -> role id
	catalog   []string
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		roles:     make(map[string]*entity.Role),
		rolePerms: make(map[string][]string),
		userRoles: make(map[string]string),
		catalog:   entity.PermissionCatalog(),
	}
}

func (f *fakeRoleRepo) Create(_ context.Context, role *entity.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.TeamID == role.TeamID && r.Name == role.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *role
	f.roles[role.ID] = &cp
	return nil
}

func (f *fakeRoleRepo) GetByName(_ context.Context, teamID, name string) (*entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.TeamID == teamID && r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRoleRepo) GetByID(_ context.Context, teamID, id string) (*entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[id]
	if !ok || r.TeamID != teamID {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoleRepo) ListByTeam(_ context.Context, teamID string) ([]*entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Role
	for _, r := range f.roles {
		if r.TeamID == teamID && r.Name != entity.ReservedDoctorRole {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRoleRepo) Delete(_ context.Context, teamID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[id]
	if !ok || r.TeamID != teamID {
		return domain.ErrNotFound
	}
	delete(f.roles, id)
	delete(f.rolePerms, id)
	for u, rid := range f.userRoles {
		if rid == id {
			delete(f.userRoles, u)
		}
	}
	return nil
}

func (f *fakeRoleRepo) ReplacePermissions(_ context.Context, roleID string, names []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var valid []string
	for _, n := range names {
		for _, c := range f.catalog {
			if n == c {
				valid = append(valid, n)
				break
			}
		}
	}
	f.rolePerms[roleID] = valid
	return nil
}

func (f *fakeRoleRepo) AssignSingleRole(_ context.Context, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userRoles[userID] = roleID
	return nil
}

func (f *fakeRoleRepo) RolePermissions(_ context.Context, roleID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.rolePerms[roleID]...), nil
}

func (f *fakeRoleRepo) UserPermissions(_ context.Context, userID, teamID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	roleID, ok := f.userRoles[userID]
	if !ok {
		return nil, nil
	}
	if r, ok := f.roles[roleID]; !ok || r.TeamID != teamID {
		return nil, nil
	}
	return append([]string(nil), f.rolePerms[roleID]...), nil
}

func (f *fakeRoleRepo) AllPermissions(context.Context) ([]string, error) {
	return append([]string(nil), f.catalog...), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio de usuarios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) seedNurse(nurseID, ownerID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner := ownerID
	f.users[nurseID] = &entity.User{
		ID:       nurseID,
		DoctorID: &owner,
		Email:    name + "@consultorio.local",
		Name:     name,
		Role:     entity.RoleNurse,
		Status:   "active",
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindNurse(_ context.Context, teamID, nurseID string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[nurseID]
	if !ok || u.Role != entity.RoleNurse || u.DoctorID == nil || *u.DoctorID != teamID {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) ListNurses(_ context.Context, teamID string) ([]*entity.NurseWithRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.NurseWithRole
	for _, u := range f.users {
		if u.Role == entity.RoleNurse && u.DoctorID != nil && *u.DoctorID == teamID {
			out = append(out, &entity.NurseWithRole{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio de sala de espera en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeWaitingRepo struct {
	mu      sync.Mutex
	rooms   map[string]*entity.WaitingRoom // key: teamID
	entries map[string][]*entity.WaitingRoomEntry
	logs    []*entity.WaitingRoomLog
}

func newFakeWaitingRepo() *fakeWaitingRepo {
	return &fakeWaitingRepo{
		rooms:   make(map[string]*entity.WaitingRoom),
		entries: make(map[string][]*entity.WaitingRoomEntry),
	}
}

func (f *fakeWaitingRepo) GetOrCreate(_ context.Context, teamID string) (*entity.WaitingRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[teamID]
	if !ok {
		room = &entity.WaitingRoom{ID: uuid.New().String(), DoctorID: teamID, UpdatedAt: time.Now()}
		f.rooms[teamID] = room
	}
	cp := *room
	return &cp, nil
}

func (f *fakeWaitingRepo) Get(_ context.Context, teamID string) (*entity.WaitingRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[teamID]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (f *fakeWaitingRepo) IncrementCount(_ context.Context, roomID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, room := range f.rooms {
		if room.ID == roomID {
			room.PatientCount++
			room.UpdatedAt = time.Now()
			return room.PatientCount, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (f *fakeWaitingRepo) ResetCount(_ context.Context, roomID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, room := range f.rooms {
		if room.ID == roomID {
			prev := room.PatientCount
			room.PatientCount = 0
			room.UpdatedAt = time.Now()
			return prev, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (f *fakeWaitingRepo) AddEntry(_ context.Context, entry *entity.WaitingRoomEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *entry
	f.entries[entry.WaitingRoomID] = append(f.entries[entry.WaitingRoomID], &cp)
	return nil
}

func (f *fakeWaitingRepo) ClearEntries(_ context.Context, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, roomID)
	return nil
}

func (f *fakeWaitingRepo) ListEntries(_ context.Context, roomID string) ([]*entity.WaitingRoomEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.WaitingRoomEntry, 0, len(f.entries[roomID]))
	for _, e := range f.entries[roomID] {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeWaitingRepo) AppendLog(_ context.Context, log *entity.WaitingRoomLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *log
	cp.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, &cp)
	return nil
}

func (f *fakeWaitingRepo) logStatuses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.logs))
	for _, l := range f.logs {
		out = append(out, l.Status)
	}
	return out
}

func (f *fakeWaitingRepo) logEntries() []entity.WaitingRoomLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.WaitingRoomLog, 0, len(f.logs))
	for _, l := range f.logs {
		out = append(out, *l)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner y publisher de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeTx pasa los repos en memoria al callback; no hay transacción real.
type fakeTx struct {
	roles   repository.RoleRepository
	waiting repository.WaitingRoomRepository
}

func (f *fakeTx) RunRoleGrant(ctx context.Context, fn func(roles repository.RoleRepository) error) error {
	return fn(f.roles)
}

func (f *fakeTx) RunWaitingRoom(ctx context.Context, fn func(rooms repository.WaitingRoomRepository) error) error {
	return fn(f.waiting)
}

// publishedEvent evento capturado por el publisher de test.
type publishedEvent struct {
	Channel string
	Event   string
	Payload interface{}
}

// fakePublisher captura las publicaciones; C permite esperar la goroutine
// de publicación best-effort.
type fakePublisher struct {
	C chan publishedEvent
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{C: make(chan publishedEvent, 8)}
}

func (f *fakePublisher) Publish(channel, event string, payload interface{}) {
	f.C <- publishedEvent{Channel: channel, Event: event, Payload: payload}
}
