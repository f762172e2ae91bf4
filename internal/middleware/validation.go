package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxIDLen       = 36 // UUID identifiers
	MaxUsernameLen = 30 // users.username VARCHAR(30)
	MaxTitleLen    = 120
)

var (
	// uuidRe matches lowercase UUIDv4 identifiers.
	uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	// usernameRe matches generated usernames: lowercase alphanumerics.
	usernameRe = regexp.MustCompile(`^[a-z0-9]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidationErrors returns a 422 carrying all field messages at once.
func ValidationErrors(c fiber.Ctx, messages []string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "VALIDATION",
			"message": strings.Join(messages, "; "),
			"fields":  messages,
		},
	})
}

// ValidateID checks that a path identifier is a well-formed UUID.
func ValidateID(id, field string) (string, string) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return "", field + " is required"
	}
	if len(id) > MaxIDLen || !uuidRe.MatchString(id) {
		return "", field + " must be a valid identifier"
	}
	return id, ""
}

// ValidateUsername checks that a username is well-formed.
func ValidateUsername(username string) (string, string) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", "username is required"
	}
	if len(username) > MaxUsernameLen {
		return "", "username must be at most 30 characters"
	}
	if !usernameRe.MatchString(username) {
		return "", "username must be lowercase letters and digits"
	}
	return username, ""
}
