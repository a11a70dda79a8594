package device

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
	api.GET("/devices", h.ListDevices)
	api.POST("/devices", h.CreateDevice)
	api.GET("/devices/:id", h.GetDevice)
	api.DELETE("/devices/:id", h.DeleteDevice)
	api.POST("/devices/:id/calibrate", h.CalibrateDevice)
}

func (h *Handler) ListDevices(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, err := h.svc.SearchDevices(c.Request().Context(), c.QueryParam("q"), c.QueryParam("status"), c.QueryParam("type"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.Respond(items, pg))
}

func (h *Handler) CreateDevice(c echo.Context) error {
	var in NewDevice
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.AddDevice(c.Request().Context(), &in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDevice(c echo.Context) error {
	d, err := h.svc.GetDevice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDevice(c echo.Context) error {
	if err := h.svc.RemoveDevice(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CalibrateDevice answers 202 when a calibration was started and 200 when
// one was already running.
func (h *Handler) CalibrateDevice(c echo.Context) error {
	d, started, err := h.svc.Calibrate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	code := http.StatusOK
	if started {
		code = http.StatusAccepted
	}
	return c.JSON(code, map[string]interface{}{"data": d, "started": started})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "device not found")
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrClosed):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
