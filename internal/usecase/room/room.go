package usecase_room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/addy/pointing-poker-api/internal/model"
)

var (
	ErrResourceNotFound = errors.New("no such resource")
	ErrInternal         = errors.New("internal error")
)

//go:generate mockery --name=RoomRepository --output=./mocks --filename=repository.go
type RoomRepository interface {
	CreateRoom(ctx context.Context, room model.Room) error
	Room(ctx context.Context, roomID model.RoomID) (*model.Room, error)
	AddUser(ctx context.Context, user model.User, roomID model.RoomID) error
	RemoveUser(ctx context.Context, userID model.UserID) (*model.User, model.RoomID, error)
	CountUsers(ctx context.Context, roomID model.RoomID) (int, error)
	FirstJoinedUser(ctx context.Context, roomID model.RoomID) (*model.User, error)
	SetOwner(ctx context.Context, roomID model.RoomID, ownerID *model.UserID) error
	DeleteRoom(ctx context.Context, roomID model.RoomID) (bool, error)
}

//go:generate mockery --name=EventPublisher --output=./mocks --filename=publisher.go
type EventPublisher interface {
	Ensure(roomID model.RoomID)
	Publish(roomID model.RoomID, event model.RoomEvent)
	Remove(roomID model.RoomID)
}

//go:generate mockery --name=ActivityIndex --output=./mocks --filename=activity.go
type ActivityIndex interface {
	Touch(ctx context.Context, roomID model.RoomID) error
	IdleBefore(ctx context.Context, cutoff time.Time) ([]model.RoomID, error)
	Forget(ctx context.Context, roomID model.RoomID) error
}

type Usecase struct {
	rooms     RoomRepository
	publisher EventPublisher
	activity  ActivityIndex
	logger    *slog.Logger

	// Mutating operations on one room are serialized so that two
	// concurrent leaves cannot both observe "others remain" before
	// either succession/cleanup completes.
	mu    sync.Mutex
	locks map[model.RoomID]*sync.Mutex

	// Orphan sweep runs on every Nth room creation. createsCount is
	// guarded by mu, requests create rooms concurrently.
	cleanupPeriod int
	idleTTL       time.Duration
	createsCount  int
}

type UsecaseOption func(*Usecase)

func WithLogger(logger *slog.Logger) UsecaseOption {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func New(
	rooms RoomRepository,
	publisher EventPublisher,
	activity ActivityIndex,
	cleanupPeriod int,
	idleTTL time.Duration,
	opts ...UsecaseOption,
) *Usecase {
	if cleanupPeriod <= 0 {
		cleanupPeriod = 20 /* default */
	}
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}

	u := &Usecase{
		rooms:         rooms,
		publisher:     publisher,
		activity:      activity,
		logger:        slog.Default(),
		locks:         make(map[model.RoomID]*sync.Mutex),
		cleanupPeriod: cleanupPeriod,
		idleTTL:       idleTTL,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Usecase) lockRoom(roomID model.RoomID) func() {
	u.mu.Lock()
	lock, ok := u.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		u.locks[roomID] = lock
	}
	u.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (u *Usecase) forgetLock(roomID model.RoomID) {
	u.mu.Lock()
	delete(u.locks, roomID)
	u.mu.Unlock()
}

// Create persists a new room and opens its event channel. A non-empty
// creator name becomes the room's first user and owner.
func (u *Usecase) Create(ctx context.Context, name string, creatorName string) (model.Room, error) {
	var owner *model.User
	if creatorName != "" {
		created := model.NewUser(creatorName, false)
		owner = &created
	}
	room := model.NewRoom(name, owner)

	if err := u.rooms.CreateRoom(ctx, room); err != nil {
		return model.Room{}, errors.Join(ErrInternal, err)
	}

	u.publisher.Ensure(room.ID)
	u.publisher.Publish(room.ID, model.NewRoomUpdatedEvent(room.ID))
	u.touch(ctx, room.ID)

	u.mu.Lock()
	u.createsCount++
	sweep := u.createsCount%u.cleanupPeriod == 0
	u.mu.Unlock()

	// Only the creation that crossed the period boundary sweeps, so
	// the sweep never runs twice for one period.
	if sweep {
		u.cleanupIdleRooms(ctx)
	}

	return room, nil
}

func (u *Usecase) Room(ctx context.Context, roomID model.RoomID) (model.Room, error) {
	room, err := u.rooms.Room(ctx, roomID)
	if err != nil {
		return model.Room{}, errors.Join(ErrInternal, err)
	}
	if room == nil {
		return model.Room{}, ErrResourceNotFound
	}
	return *room, nil
}

func (u *Usecase) Join(ctx context.Context, roomID model.RoomID, name string, isObserver bool) (model.User, error) {
	unlock := u.lockRoom(roomID)
	defer unlock()

	room, err := u.rooms.Room(ctx, roomID)
	if err != nil {
		return model.User{}, errors.Join(ErrInternal, err)
	}
	if room == nil {
		return model.User{}, ErrResourceNotFound
	}

	user := model.NewUser(name, isObserver)
	if err := u.rooms.AddUser(ctx, user, roomID); err != nil {
		return model.User{}, errors.Join(ErrInternal, err)
	}

	u.publisher.Publish(roomID, model.NewUserJoinedEvent(user))
	u.touch(ctx, roomID)

	return user, nil
}

// Leave removes the user and settles the room: the last departure
// deletes the room and its event channel, a departing owner hands
// ownership to the earliest-joined remaining user.
func (u *Usecase) Leave(ctx context.Context, roomID model.RoomID, userID model.UserID) (model.User, error) {
	unlock := u.lockRoom(roomID)
	defer func() { unlock() }()

	user, actualRoomID, err := u.rooms.RemoveUser(ctx, userID)
	if err != nil {
		return model.User{}, errors.Join(ErrInternal, err)
	}
	if user == nil {
		return model.User{}, ErrResourceNotFound
	}

	if actualRoomID != roomID {
		// The path named a different room than the one the user was in.
		// Settle the real room or its owner and count go stale.
		unlock()
		roomID = actualRoomID
		unlock = u.lockRoom(roomID)
	}

	u.publisher.Publish(roomID, model.NewUserLeftEvent(userID))

	remaining, err := u.rooms.CountUsers(ctx, roomID)
	if err != nil {
		return model.User{}, errors.Join(ErrInternal, err)
	}

	if remaining == 0 {
		if _, err := u.rooms.DeleteRoom(ctx, roomID); err != nil {
			return model.User{}, errors.Join(ErrInternal, err)
		}
		u.publisher.Remove(roomID)
		u.forget(ctx, roomID)
		u.forgetLock(roomID)
		return *user, nil
	}

	room, err := u.rooms.Room(ctx, roomID)
	if err != nil {
		return model.User{}, errors.Join(ErrInternal, err)
	}
	if room != nil && room.OwnerID != nil && *room.OwnerID == userID {
		next, err := u.rooms.FirstJoinedUser(ctx, roomID)
		if err != nil {
			return model.User{}, errors.Join(ErrInternal, err)
		}
		if next != nil {
			if err := u.rooms.SetOwner(ctx, roomID, &next.ID); err != nil {
				return model.User{}, errors.Join(ErrInternal, err)
			}
		}
	}

	u.touch(ctx, roomID)
	return *user, nil
}

func (u *Usecase) touch(ctx context.Context, roomID model.RoomID) {
	if err := u.activity.Touch(ctx, roomID); err != nil {
		u.logger.Error("failed to touch room activity",
			slog.String("room_id", roomID.String()),
			slog.String("error", err.Error()))
	}
}

func (u *Usecase) forget(ctx context.Context, roomID model.RoomID) {
	if err := u.activity.Forget(ctx, roomID); err != nil {
		u.logger.Error("failed to forget room activity",
			slog.String("room_id", roomID.String()),
			slog.String("error", err.Error()))
	}
}

// cleanupIdleRooms drops rooms idle beyond the TTL. Best-effort:
// failures are logged, never surfaced to the caller.
func (u *Usecase) cleanupIdleRooms(ctx context.Context) {
	idle, err := u.activity.IdleBefore(ctx, time.Now().Add(-u.idleTTL))
	if err != nil {
		u.logger.Error("failed to list idle rooms", slog.String("error", err.Error()))
		return
	}

	for _, roomID := range idle {
		if _, err := u.rooms.DeleteRoom(ctx, roomID); err != nil {
			u.logger.Error("failed to delete idle room",
				slog.String("room_id", roomID.String()),
				slog.String("error", err.Error()))
			continue
		}
		u.publisher.Remove(roomID)
		u.forget(ctx, roomID)
		u.forgetLock(roomID)
		u.logger.Info("deleted idle room", slog.String("room_id", roomID.String()))
	}
}
