// seed genera el script SQL de datos de demostración: un médico con su rol
// reservado (todos los permisos), una enfermera y un par de pacientes.
//
// Uso: go run ./cmd/seed [email-del-medico] [password]
// Por defecto: demo@consultorio.local / consultorio123
// Escribe: internal/infrastructure/postgres/migrations/003_seed_demo.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := "demo@consultorio.local"
	password := "consultorio123"
	if len(os.Args) > 1 {
		email = os.Args[1]
	}
	if len(os.Args) > 2 {
		password = os.Args[2]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hashear password: %v\n", err)
		os.Exit(1)
	}

	doctorID := uuid.NewString()
	nurseID := uuid.NewString()
	roleID := uuid.NewString()
	prefID := uuid.NewString()

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "003_seed_demo.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Datos de demostración (generado por cmd/seed)\n\n")

	// 1. Médico + preferencias
	fmt.Fprintf(out, "INSERT INTO users (id, doctor_id, email, password_hash, name, role, status)\n")
	fmt.Fprintf(out, "VALUES ('%s', NULL, '%s', '%s', 'Dra. Demo', 'doctor', 'active')\n", doctorID, escapeSQL(email), string(hash))
	out.WriteString("ON CONFLICT (email) DO NOTHING;\n\n")

	fmt.Fprintf(out, "INSERT INTO user_preferences (id, doctor_id, kpi_date)\n")
	fmt.Fprintf(out, "VALUES ('%s', '%s', 'year')\nON CONFLICT (doctor_id) DO NOTHING;\n\n", prefID, doctorID)

	// 2. Rol reservado del médico con el catálogo completo
	fmt.Fprintf(out, "INSERT INTO roles (id, team_id, name)\n")
	fmt.Fprintf(out, "VALUES ('%s', '%s', 'doctor')\nON CONFLICT (team_id, name) DO NOTHING;\n\n", roleID, doctorID)

	fmt.Fprintf(out, "INSERT INTO role_permissions (role_id, permission_id)\n")
	fmt.Fprintf(out, "SELECT '%s', id FROM permissions\nON CONFLICT DO NOTHING;\n\n", roleID)

	fmt.Fprintf(out, "INSERT INTO user_roles (user_id, role_id)\n")
	fmt.Fprintf(out, "VALUES ('%s', '%s')\nON CONFLICT DO NOTHING;\n\n", doctorID, roleID)

	// 3. Enfermera del equipo (sin rol asignado todavía)
	fmt.Fprintf(out, "INSERT INTO users (id, doctor_id, email, password_hash, name, role, status)\n")
	fmt.Fprintf(out, "VALUES ('%s', '%s', 'enfermera.%s', '%s', 'Enf. Demo', 'nurse', 'active')\n",
		nurseID, doctorID, escapeSQL(email), string(hash))
	out.WriteString("ON CONFLICT (email) DO NOTHING;\n\n")

	// 4. Pacientes de ejemplo
	for _, p := range []struct{ first, last string }{
		{"Jean", "Dupont"},
		{"María", "García"},
	} {
		fmt.Fprintf(out, "INSERT INTO patients (id, doctor_id, first_name, last_name)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s', '%s')\nON CONFLICT (id) DO NOTHING;\n\n",
			uuid.NewString(), doctorID, escapeSQL(p.first), escapeSQL(p.last))
	}

	fmt.Printf("Generado %s (médico: %s)\n", outPath, email)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
