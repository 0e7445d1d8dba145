package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"sourcing-workflow/internal/domain/actor"
)

// Identity headers are set by the trusted gateway in front of the API.
const (
	HeaderActorID          = "Ax-Actor-Id"
	HeaderActorName        = "Ax-Actor-Name"
	HeaderActorRole        = "Ax-Actor-Role"
	HeaderActorPermissions = "Ax-Actor-Permissions"
	HeaderSupplierID       = "Ax-Supplier-Id"
	HeaderDepartment       = "Ax-Department"

	actorKey = "actor"
)

// Actor builds the caller from the identity headers. Missing headers yield
// the anonymous actor; use cases decide whether that is acceptable.
func Actor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header
			a := actor.Actor{
				ID:          strings.TrimSpace(h.Get(HeaderActorID)),
				Name:        strings.TrimSpace(h.Get(HeaderActorName)),
				Role:        actor.Role(strings.TrimSpace(h.Get(HeaderActorRole))),
				Department:  strings.TrimSpace(h.Get(HeaderDepartment)),
				Permissions: actor.ParsePermissions(h.Get(HeaderActorPermissions)),
			}
			if raw := strings.TrimSpace(h.Get(HeaderSupplierID)); raw != "" {
				id, err := strconv.ParseUint(raw, 10, 64)
				if err != nil || id == 0 {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid Ax-Supplier-Id"})
				}
				a.SupplierID = &id
			}
			c.Set(actorKey, a)
			return next(c)
		}
	}
}

// ActorFrom returns the anonymous actor when the middleware did not run.
func ActorFrom(c echo.Context) actor.Actor {
	a, _ := c.Get(actorKey).(actor.Actor)
	return a
}
