package sandbox

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the catalog the server was started with.
type Handler struct {
	ds *Dataset
}

func NewHandler(ds *Dataset) *Handler {
	return &Handler{ds: ds}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/sandbox/summary", h.handleSummary)
	g.GET("/sandbox/seed", h.handleExport)
}

func (h *Handler) handleSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ds.Summary())
}

func (h *Handler) handleExport(c echo.Context) error {
	data, err := h.ds.Marshal()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="seed.yaml"`)
	return c.Blob(http.StatusOK, "application/yaml", data)
}
