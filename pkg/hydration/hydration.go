//go:generate mockgen -source=hydration.go -destination=mocks/mocks.go -package=mocks

package hydration

import (
	"context"
	"time"

	"liyu1981.xyz/water-intake-service/pkg/cache"
	"liyu1981.xyz/water-intake-service/pkg/db"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

// IRegistry resolves a device to the tare weight configured by its owner.
type IRegistry interface {
	ResolveTare(ctx context.Context, deviceID string) (int, error)
	Invalidate(ctx context.Context, deviceIDs ...string)
}

// IAccountant turns raw weight samples into consumption records.
type IAccountant interface {
	RecordWeight(ctx context.Context, deviceID string, rawWeight float64, receivedAt time.Time) (*models.ConsumptionRecord, error)
}

type IDockTracker interface {
	ApplyDockStatus(ctx context.Context, deviceID string, isPickedUp bool) error
}

type IProfile interface {
	CreateUser(ctx context.Context, input *models.User) (*models.User, error)
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	UpdateField(ctx context.Context, userID uint, field models.ProfileField, raw string) error
}

type IIntake interface {
	QueryConsumption(ctx context.Context, deviceID string, from, to time.Time) ([]models.ConsumptionRecord, error)
	Today(ctx context.Context, userID uint) ([]models.ConsumptionRecord, error)
	Week(ctx context.Context, userID uint) ([]models.ConsumptionRecord, error)
	TodayTotal(ctx context.Context, userID uint) (float64, error)
}

// IGoal reports progress towards the daily goal.
type IGoal interface {
	Progress(ctx context.Context, userID uint) (*models.GoalProgress, error)
	ProgressForDevice(ctx context.Context, deviceID string) (*models.GoalProgress, error)
}

type Hydration struct {
	Db       *db.DB
	Cache    cache.Cache
	CacheTTL time.Duration
	// Now is the clock used for query windows, time.Now when nil.
	Now func() time.Time

	Registry   IRegistry
	Accountant IAccountant
	Dock       IDockTracker
	Profile    IProfile
	Intake     IIntake
	Goal       IGoal

	registryState registryState
}

type ServiceOpts struct {
	Registry   IRegistry
	Accountant IAccountant
	Dock       IDockTracker
	Profile    IProfile
	Intake     IIntake
	Goal       IGoal
}

func (h *Hydration) WithServices(opts ServiceOpts) *Hydration {
	if opts.Registry != nil {
		h.Registry = opts.Registry
	}
	if opts.Accountant != nil {
		h.Accountant = opts.Accountant
	}
	if opts.Dock != nil {
		h.Dock = opts.Dock
	}
	if opts.Profile != nil {
		h.Profile = opts.Profile
	}
	if opts.Intake != nil {
		h.Intake = opts.Intake
	}
	if opts.Goal != nil {
		h.Goal = opts.Goal
	}
	return h
}

// WithDefaultServices wires every service to its store-backed implementation.
func (h *Hydration) WithDefaultServices() *Hydration {
	return h.WithServices(ServiceOpts{
		Registry:   h.GetIRegistry(),
		Accountant: h.GetIAccountant(),
		Dock:       h.GetIDockTracker(),
		Profile:    h.GetIProfile(),
		Intake:     h.GetIIntake(),
		Goal:       h.GetIGoal(),
	})
}

func (h *Hydration) cache() cache.Cache {
	if h.Cache == nil {
		return cache.NopCache{}
	}
	return h.Cache
}

func (h *Hydration) cacheTTL() time.Duration {
	if h.CacheTTL <= 0 {
		return 5 * time.Minute
	}
	return h.CacheTTL
}

func (h *Hydration) now() time.Time {
	if h.Now == nil {
		return time.Now().UTC()
	}
	return h.Now().UTC()
}
