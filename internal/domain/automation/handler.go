package automation

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicboard/clinicboard/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/functions", h.ListFunctions)
	api.GET("/functions/:id", h.GetFunction)
}

func (h *Handler) ListFunctions(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, err := h.svc.Search(c.QueryParam("q"), c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.Respond(items, pg))
}

func (h *Handler) GetFunction(c echo.Context) error {
	f, err := h.svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "function not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, f)
}
