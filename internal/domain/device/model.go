package device

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("device not found")
	ErrValidation = errors.New("validation failed")
	ErrClosed     = errors.New("calibration runner closed")
)

type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

func (s Status) Valid() bool {
	return s == StatusConnected || s == StatusDisconnected
}

type Type string

const (
	TypeEyeTracker     Type = "Eye Tracker"
	TypeHearingDevice  Type = "Hearing Device"
	TypeVisionScreener Type = "Vision Screener"
	TypeOther          Type = "Other"
)

// DefaultType is used when a device is added without a type.
const DefaultType = TypeEyeTracker

func (t Type) Valid() bool {
	switch t {
	case TypeEyeTracker, TypeHearingDevice, TypeVisionScreener, TypeOther:
		return true
	}
	return false
}

// Device is a piece of clinic hardware that can be calibrated.
// IsCalibrating is true only while a calibration is in flight.
type Device struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Type           Type       `json:"type"`
	Serial         string     `json:"serial"`
	Status         Status     `json:"status"`
	LastCalibrated *time.Time `json:"last_calibrated"`
	IsCalibrating  bool       `json:"is_calibrating"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (d *Device) clone() *Device {
	cp := *d
	if d.LastCalibrated != nil {
		t := *d.LastCalibrated
		cp.LastCalibrated = &t
	}
	return &cp
}

// NewDevice is the "Add Device" form.
type NewDevice struct {
	Name   string `json:"name"`
	Type   Type   `json:"type"`
	Serial string `json:"serial"`
}

func (n *NewDevice) Validate() error {
	var missing []string
	if strings.TrimSpace(n.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(n.Serial) == "" {
		missing = append(missing, "serial")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	if n.Type != "" && !n.Type.Valid() {
		return fmt.Errorf("%w: invalid device type %q", ErrValidation, n.Type)
	}
	return nil
}
