package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/platform/search"
	"github.com/clinicboard/clinicboard/internal/platform/websocket"
)

// Topic is the websocket topic device events are published on.
const Topic = "devices"

const (
	EventAdded                = "device.added"
	EventRemoved              = "device.removed"
	EventCalibrationStarted   = "calibration.started"
	EventCalibrationCompleted = "calibration.completed"
	EventCalibrationFailed    = "calibration.failed"
)

type Service struct {
	repo       DeviceRepository
	calibrator Calibrator
	runner     *Runner
	publisher  websocket.EventPublisher
	logger     zerolog.Logger
	now        func() time.Time
}

func NewService(repo DeviceRepository, calibrator Calibrator, publisher websocket.EventPublisher, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		calibrator: calibrator,
		runner:     NewRunner(),
		publisher:  publisher,
		logger:     logger.With().Str("component", "devices").Logger(),
		now:        time.Now,
	}
}

// Close stops pending calibrations and waits for them to finish.
func (s *Service) Close() {
	s.runner.Close()
}

func (s *Service) AddDevice(ctx context.Context, in *NewDevice) (*Device, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	typ := in.Type
	if typ == "" {
		typ = DefaultType
	}
	d := &Device{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Type:      typ,
		Serial:    strings.TrimSpace(in.Serial),
		Status:    StatusConnected,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	s.logger.Info().Str("device_id", d.ID).Str("name", d.Name).Msg("device added")
	s.publish(ctx, EventAdded, d)
	return d, nil
}

func (s *Service) GetDevice(ctx context.Context, id string) (*Device, error) {
	return s.repo.GetByID(ctx, id)
}

func searchFields(d *Device) []string {
	return []string{d.Name, string(d.Type), d.Serial}
}

// SearchDevices filters by name, type or serial, with optional exact status
// and type facets.
func (s *Service) SearchDevices(ctx context.Context, query, status, typ string) ([]*Device, error) {
	if status != "" && !Status(status).Valid() {
		return nil, fmt.Errorf("%w: invalid status: %s", ErrValidation, status)
	}
	if typ != "" && !Type(typ).Valid() {
		return nil, fmt.Errorf("%w: invalid device type: %s", ErrValidation, typ)
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return search.Filter(items, query, searchFields,
		search.Facet[*Device]{Name: "status", Value: status, Field: func(d *Device) string { return string(d.Status) }},
		search.Facet[*Device]{Name: "type", Value: typ, Field: func(d *Device) string { return string(d.Type) }},
	), nil
}

// RemoveDevice deletes a device. A calibration in flight for it completes
// without effect.
func (s *Service) RemoveDevice(ctx context.Context, id string) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("device_id", id).Msg("device removed")
	s.publish(ctx, EventRemoved, d)
	return nil
}

// Calibrate marks the device as calibrating and schedules completion in the
// background. started is false when a calibration was already in flight, in
// which case nothing is scheduled.
func (s *Service) Calibrate(ctx context.Context, id string) (d *Device, started bool, err error) {
	d, err = s.repo.Update(ctx, id, func(d *Device) error {
		if d.IsCalibrating {
			return nil
		}
		d.IsCalibrating = true
		started = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !started {
		return d, false, nil
	}

	snapshot := *d
	if !s.runner.Go(func(rctx context.Context) { s.finishCalibration(rctx, snapshot) }) {
		s.repo.Update(ctx, id, func(d *Device) error {
			d.IsCalibrating = false
			return nil
		})
		return nil, false, ErrClosed
	}

	s.logger.Debug().Str("device_id", id).Msg("calibration started")
	s.publish(ctx, EventCalibrationStarted, d)
	return d, true, nil
}

func (s *Service) finishCalibration(ctx context.Context, d Device) {
	calErr := s.calibrator.Calibrate(ctx, d)
	now := s.now().UTC()

	// the runner context may already be cancelled
	updated, err := s.repo.Update(context.Background(), d.ID, func(d *Device) error {
		d.IsCalibrating = false
		if calErr == nil {
			d.LastCalibrated = &now
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		s.logger.Debug().Str("device_id", d.ID).Msg("device removed during calibration")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("device_id", d.ID).Msg("failed to record calibration")
		return
	}

	if calErr != nil {
		s.logger.Warn().Err(calErr).Str("device_id", d.ID).Msg("calibration failed")
		s.publish(context.Background(), EventCalibrationFailed, updated)
		return
	}
	s.logger.Info().Str("device_id", d.ID).Time("last_calibrated", now).Msg("calibration completed")
	s.publish(context.Background(), EventCalibrationCompleted, updated)
}

func (s *Service) publish(ctx context.Context, eventType string, d *Device) {
	if s.publisher == nil {
		return
	}
	ev, err := websocket.NewEvent(eventType, Topic, "Device", d.ID, d)
	if err != nil {
		s.logger.Error().Err(err).Str("type", eventType).Msg("failed to build event")
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("type", eventType).Msg("failed to publish event")
	}
}
