package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/medisuite/consultorio-api/internal/application/access"
	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/pkg/jwt"
)

// Locals keys para la identidad autenticada en Fiber.
const (
	LocalUserID   = "user_id"
	LocalDoctorID = "doctor_id"
	LocalRole     = "role"
)

// AuthMiddleware valida el Bearer Token JWT y deja UserID, DoctorID y Role en
// c.Locals. La resolución del tenant efectivo ocurre después, en el gate.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Err("Authorization header requerido", "MISSING_TOKEN"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Err("formato: Bearer <token>", "INVALID_TOKEN"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Err("token vacío", "MISSING_TOKEN"))
		}
		userID, doctorID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Err("token inválido o expirado", "INVALID_TOKEN"))
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalDoctorID, doctorID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// GetIdentity arma la identidad del llamador desde c.Locals (después del
// middleware de auth).
func GetIdentity(c *fiber.Ctx) access.Identity {
	return access.Identity{
		UserID:   localString(c, LocalUserID),
		DoctorID: localString(c, LocalDoctorID),
		Role:     localString(c, LocalRole),
	}
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
