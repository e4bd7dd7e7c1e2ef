// Package repository defines the storage contracts the services depend
// on. The shipped implementations are in-memory (repository/memory);
// swapping in a database-backed implementation only requires satisfying
// these interfaces.
package repository

import (
	"context"

	"parkfinder/internal/domain/entities"
)

// ParkingRepository stores the parking inventory. Options are keyed by
// name; availability changes flow through AdjustAvailability so the
// clamp to [0, total] lives in one place.
type ParkingRepository interface {
	Upsert(ctx context.Context, option entities.ParkingOption) error
	GetByName(ctx context.Context, name string) (entities.ParkingOption, error)
	List(ctx context.Context) ([]entities.ParkingOption, error)
	ListAvailable(ctx context.Context) ([]entities.ParkingOption, error)
	AdjustAvailability(ctx context.Context, name string, delta int) (entities.ParkingOption, error)
}

// UserRepository stores registered accounts.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
}
