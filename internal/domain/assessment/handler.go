package assessment

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
	api.GET("/assessments", h.ListAssessments)
	api.GET("/assessments/categories", h.ListCategories)
	api.GET("/assessments/:id", h.GetAssessment)
}

func (h *Handler) ListAssessments(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, err := h.svc.Search(c.QueryParam("q"), c.QueryParam("category"), c.QueryParam("difficulty"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.Respond(items, pg))
}

func (h *Handler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"data": h.svc.Categories()})
}

func (h *Handler) GetAssessment(c echo.Context) error {
	a, err := h.svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "assessment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}
