package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"sourcing-workflow/pkg/clock"
)

type Handler struct{ clock clock.Clock }

func NewHandler(clk clock.Clock) *Handler {
	if clk == nil {
		clk = clock.System
	}
	return &Handler{clock: clk}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   h.clock.Now().UTC().Format(time.RFC3339Nano),
	})
}
