package workspace

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/workspaces")
	g.POST("", h.CreateWorkspace)
	g.GET("/:id", h.GetWorkspace)
	g.DELETE("/:id", h.DeleteWorkspace)
	g.PUT("/:id/section", h.Navigate)
	g.POST("/:id/open-from-patient", h.OpenFromPatient)
	g.PUT("/:id/search", h.SetSearch)
	g.PUT("/:id/category", h.SetCategory)
	g.PUT("/:id/selection", h.Select)
	g.DELETE("/:id/selection/:section", h.ClearSelection)
	g.PUT("/:id/theme", h.SetTheme)
	g.POST("/:id/functions/:fid/run", h.RunFunction)
	g.GET("/:id/view", h.GetView)
}

type sectionRequest struct {
	Section string `json:"section"`
}

type openFromPatientRequest struct {
	Target    string `json:"target"`
	PatientID string `json:"patient_id"`
}

type searchRequest struct {
	Section string `json:"section"`
	Query   string `json:"query"`
}

type categoryRequest struct {
	Category string `json:"category"`
}

type selectionRequest struct {
	Section string `json:"section"`
	ID      string `json:"id"`
}

type themeRequest struct {
	Mode string `json:"mode"`
}

func (h *Handler) CreateWorkspace(c echo.Context) error {
	w, err := h.svc.Create(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) GetWorkspace(c echo.Context) error {
	w, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) DeleteWorkspace(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Navigate(c echo.Context) error {
	var req sectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.svc.Navigate(c.Request().Context(), c.Param("id"), req.Section))
}

func (h *Handler) OpenFromPatient(c echo.Context) error {
	var req openFromPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.svc.OpenFromPatient(c.Request().Context(), c.Param("id"), req.Target, req.PatientID))
}

func (h *Handler) SetSearch(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.svc.SetSearch(c.Request().Context(), c.Param("id"), req.Section, req.Query))
}

func (h *Handler) SetCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.svc.SetCategory(c.Request().Context(), c.Param("id"), req.Category))
}

func (h *Handler) Select(c echo.Context) error {
	var req selectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.svc.Select(c.Request().Context(), c.Param("id"), req.Section, req.ID))
}

func (h *Handler) ClearSelection(c echo.Context) error {
	return h.respond(c)(h.svc.ClearSelection(c.Request().Context(), c.Param("id"), c.Param("section")))
}

// SetTheme sets the theme from {"mode": "..."}; an empty body toggles it.
func (h *Handler) SetTheme(c echo.Context) error {
	var req themeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.svc.SetTheme(c.Request().Context(), c.Param("id"), req.Mode))
}

func (h *Handler) RunFunction(c echo.Context) error {
	return h.respond(c)(h.svc.RunFunction(c.Request().Context(), c.Param("id"), c.Param("fid")))
}

func (h *Handler) GetView(c echo.Context) error {
	v, err := h.svc.View(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) respond(c echo.Context) func(*Workspace, error) error {
	return func(w *Workspace, err error) error {
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, w)
	}
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "workspace not found")
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
