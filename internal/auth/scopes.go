package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/ticket-sla/pkg/util/errorutil"
)

// Scope grants access to a group of API operations.
type Scope string

const (
	ScopeEvaluate    Scope = "sla:evaluate"
	ScopeReportsRead Scope = "reports:read"
	ScopeReportsRun  Scope = "reports:run"
)

// AllScopes lists every scope, for operator tokens.
var AllScopes = []Scope{ScopeEvaluate, ScopeReportsRead, ScopeReportsRun}

// RequireScope ensures the principal holds the given scope.
func RequireScope(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.HasScope(scope) {
			return apperrors.NewDomainError("FORBIDDEN", "missing scope "+string(scope), fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}
