package device

import "context"

type DeviceRepository interface {
	Create(ctx context.Context, d *Device) error
	GetByID(ctx context.Context, id string) (*Device, error)
	List(ctx context.Context) ([]*Device, error)
	Delete(ctx context.Context, id string) error
	// Update applies fn to the stored device atomically and returns a copy
	// of the result. If fn returns an error nothing is stored.
	Update(ctx context.Context, id string, fn func(*Device) error) (*Device, error)
}
