package usecase_room

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/addy/pointing-poker-api/internal/model"
	mocks "github.com/addy/pointing-poker-api/internal/usecase/room/mocks"
)

type UsecaseRoomUnitSuite struct {
	suite.Suite
}

type resources struct {
	usecase   *Usecase
	roomRepo  *mocks.RoomRepository
	publisher *mocks.EventPublisher
	activity  *mocks.ActivityIndex
	ctx       context.Context
}

func initResources(t provider.T) *resources {
	roomRepo := mocks.NewRoomRepository(t)
	publisher := mocks.NewEventPublisher(t)
	activity := mocks.NewActivityIndex(t)
	usecase := New(roomRepo, publisher, activity, 20, 30*time.Minute)

	return &resources{
		usecase:   usecase,
		roomRepo:  roomRepo,
		publisher: publisher,
		activity:  activity,
		ctx:       context.Background(),
	}
}

func validRoom(owner *model.User) model.Room {
	return model.NewRoom("Sprint 1", owner)
}

func (s *UsecaseRoomUnitSuite) TestCreate(t provider.T) {
	t.Parallel()

	t.Run("Should create room with creator as owner", func(t provider.T) {
		r := initResources(t)

		r.roomRepo.On("CreateRoom", r.ctx, mock.AnythingOfType("model.Room")).Return(nil).Once()
		r.publisher.On("Ensure", mock.Anything).Once()
		r.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(event model.RoomEvent) bool {
			return event.Type == model.EventRoomUpdated
		})).Once()
		r.activity.On("Touch", r.ctx, mock.Anything).Return(nil).Once()

		room, err := r.usecase.Create(r.ctx, "Sprint 1", "Alice")

		assert.NoError(t, err)
		assert.Equal(t, model.StateVoting, room.State)
		assert.Len(t, room.Users, 1)
		if assert.NotNil(t, room.OwnerID) {
			owner, ok := room.Users[*room.OwnerID]
			assert.True(t, ok, "owner must key into users")
			assert.Equal(t, "Alice", owner.Name)
			assert.False(t, owner.IsObserver)
		}
	})

	t.Run("Should create ownerless room without creator name", func(t provider.T) {
		r := initResources(t)

		r.roomRepo.On("CreateRoom", r.ctx, mock.AnythingOfType("model.Room")).Return(nil).Once()
		r.publisher.On("Ensure", mock.Anything).Once()
		r.publisher.On("Publish", mock.Anything, mock.Anything).Once()
		r.activity.On("Touch", r.ctx, mock.Anything).Return(nil).Once()

		room, err := r.usecase.Create(r.ctx, "Sprint 1", "")

		assert.NoError(t, err)
		assert.Nil(t, room.OwnerID)
		assert.Empty(t, room.Users)
	})

	t.Run("Should return error when repository fails", func(t provider.T) {
		r := initResources(t)

		r.roomRepo.On("CreateRoom", r.ctx, mock.AnythingOfType("model.Room")).
			Return(errors.New("insert failed")).Once()

		_, err := r.usecase.Create(r.ctx, "Sprint 1", "Alice")

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func (s *UsecaseRoomUnitSuite) TestRoom(t provider.T) {
	t.Parallel()

	t.Run("Should return room snapshot", func(t provider.T) {
		r := initResources(t)
		owner := model.NewUser("Alice", false)
		room := validRoom(&owner)

		r.roomRepo.On("Room", r.ctx, room.ID).Return(&room, nil).Once()

		got, err := r.usecase.Room(r.ctx, room.ID)

		assert.NoError(t, err)
		assert.Equal(t, room, got)
	})

	t.Run("Should return not found for absent room", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()

		r.roomRepo.On("Room", r.ctx, roomID).Return(nil, nil).Once()

		_, err := r.usecase.Room(r.ctx, roomID)

		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("Should wrap repository failure", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()

		r.roomRepo.On("Room", r.ctx, roomID).Return(nil, errors.New("select failed")).Once()

		_, err := r.usecase.Room(r.ctx, roomID)

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func (s *UsecaseRoomUnitSuite) TestJoin(t provider.T) {
	t.Parallel()

	t.Run("Should add user and publish joined event", func(t provider.T) {
		r := initResources(t)
		owner := model.NewUser("Alice", false)
		room := validRoom(&owner)

		r.roomRepo.On("Room", r.ctx, room.ID).Return(&room, nil).Once()
		r.roomRepo.On("AddUser", r.ctx, mock.AnythingOfType("model.User"), room.ID).Return(nil).Once()
		r.publisher.On("Publish", room.ID, mock.MatchedBy(func(event model.RoomEvent) bool {
			user, ok := event.Payload.(model.User)
			return event.Type == model.EventUserJoined && ok && user.Name == "Bob"
		})).Once()
		r.activity.On("Touch", r.ctx, room.ID).Return(nil).Once()

		user, err := r.usecase.Join(r.ctx, room.ID, "Bob", false)

		assert.NoError(t, err)
		assert.Equal(t, "Bob", user.Name)
		assert.False(t, user.IsObserver)
	})

	t.Run("Should return not found for absent room", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()

		r.roomRepo.On("Room", r.ctx, roomID).Return(nil, nil).Once()

		_, err := r.usecase.Join(r.ctx, roomID, "Bob", false)

		assert.ErrorIs(t, err, ErrResourceNotFound)
	})
}

func (s *UsecaseRoomUnitSuite) TestLeave(t provider.T) {
	t.Parallel()

	t.Run("Should return not found for unknown user", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()
		userID := model.NewUserID()

		r.roomRepo.On("RemoveUser", r.ctx, userID).Return(nil, model.RoomID{}, nil).Once()

		_, err := r.usecase.Leave(r.ctx, roomID, userID)

		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("Should delete room when the last user leaves", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()
		user := model.NewUser("Alice", false)

		r.roomRepo.On("RemoveUser", r.ctx, user.ID).Return(&user, roomID, nil).Once()
		r.publisher.On("Publish", roomID, mock.MatchedBy(func(event model.RoomEvent) bool {
			return event.Type == model.EventUserLeft
		})).Once()
		r.roomRepo.On("CountUsers", r.ctx, roomID).Return(0, nil).Once()
		r.roomRepo.On("DeleteRoom", r.ctx, roomID).Return(true, nil).Once()
		r.publisher.On("Remove", roomID).Once()
		r.activity.On("Forget", r.ctx, roomID).Return(nil).Once()

		removed, err := r.usecase.Leave(r.ctx, roomID, user.ID)

		assert.NoError(t, err)
		assert.Equal(t, user, removed)
	})

	t.Run("Should promote earliest joined user when the owner leaves", func(t provider.T) {
		r := initResources(t)
		owner := model.NewUser("Alice", false)
		next := model.NewUser("Bob", false)
		room := validRoom(&owner)
		room.Users[next.ID] = next

		r.roomRepo.On("RemoveUser", r.ctx, owner.ID).Return(&owner, room.ID, nil).Once()
		r.publisher.On("Publish", room.ID, mock.Anything).Once()
		r.roomRepo.On("CountUsers", r.ctx, room.ID).Return(1, nil).Once()
		r.roomRepo.On("Room", r.ctx, room.ID).Return(&room, nil).Once()
		r.roomRepo.On("FirstJoinedUser", r.ctx, room.ID).Return(&next, nil).Once()
		r.roomRepo.On("SetOwner", r.ctx, room.ID, &next.ID).Return(nil).Once()
		r.activity.On("Touch", r.ctx, room.ID).Return(nil).Once()

		_, err := r.usecase.Leave(r.ctx, room.ID, owner.ID)

		assert.NoError(t, err)
	})

	t.Run("Should settle the room the user actually belonged to", func(t provider.T) {
		r := initResources(t)
		user := model.NewUser("Alice", false)
		actualRoomID := model.NewRoomID()
		pathRoomID := model.NewRoomID()

		r.roomRepo.On("RemoveUser", r.ctx, user.ID).Return(&user, actualRoomID, nil).Once()
		r.publisher.On("Publish", actualRoomID, mock.MatchedBy(func(event model.RoomEvent) bool {
			return event.Type == model.EventUserLeft
		})).Once()
		r.roomRepo.On("CountUsers", r.ctx, actualRoomID).Return(0, nil).Once()
		r.roomRepo.On("DeleteRoom", r.ctx, actualRoomID).Return(true, nil).Once()
		r.publisher.On("Remove", actualRoomID).Once()
		r.activity.On("Forget", r.ctx, actualRoomID).Return(nil).Once()

		removed, err := r.usecase.Leave(r.ctx, pathRoomID, user.ID)

		assert.NoError(t, err)
		assert.Equal(t, user, removed)
	})

	t.Run("Should keep owner when a regular user leaves", func(t provider.T) {
		r := initResources(t)
		owner := model.NewUser("Alice", false)
		other := model.NewUser("Bob", false)
		room := validRoom(&owner)
		room.Users[other.ID] = other

		r.roomRepo.On("RemoveUser", r.ctx, other.ID).Return(&other, room.ID, nil).Once()
		r.publisher.On("Publish", room.ID, mock.Anything).Once()
		r.roomRepo.On("CountUsers", r.ctx, room.ID).Return(1, nil).Once()
		r.roomRepo.On("Room", r.ctx, room.ID).Return(&room, nil).Once()
		r.activity.On("Touch", r.ctx, room.ID).Return(nil).Once()

		_, err := r.usecase.Leave(r.ctx, room.ID, other.ID)

		assert.NoError(t, err)
	})
}

func (s *UsecaseRoomUnitSuite) TestIdleCleanup(t provider.T) {
	t.Parallel()

	t.Run("Should sweep idle rooms on the Nth creation", func(t provider.T) {
		roomRepo := mocks.NewRoomRepository(t)
		publisher := mocks.NewEventPublisher(t)
		activity := mocks.NewActivityIndex(t)
		usecase := New(roomRepo, publisher, activity, 1, time.Minute)
		ctx := context.Background()

		idle := model.NewRoomID()

		roomRepo.On("CreateRoom", ctx, mock.AnythingOfType("model.Room")).Return(nil).Once()
		publisher.On("Ensure", mock.Anything).Once()
		publisher.On("Publish", mock.Anything, mock.Anything).Once()
		activity.On("Touch", ctx, mock.Anything).Return(nil).Once()

		activity.On("IdleBefore", ctx, mock.AnythingOfType("time.Time")).
			Return([]model.RoomID{idle}, nil).Once()
		roomRepo.On("DeleteRoom", ctx, idle).Return(true, nil).Once()
		publisher.On("Remove", idle).Once()
		activity.On("Forget", ctx, idle).Return(nil).Once()

		_, err := usecase.Create(ctx, "Sprint 1", "Alice")

		assert.NoError(t, err)
	})

	t.Run("Should sweep exactly once under concurrent creates", func(t provider.T) {
		const workers = 8
		const perWorker = 50

		roomRepo := mocks.NewRoomRepository(t)
		publisher := mocks.NewEventPublisher(t)
		activity := mocks.NewActivityIndex(t)
		usecase := New(roomRepo, publisher, activity, workers*perWorker, time.Minute)
		ctx := context.Background()

		roomRepo.On("CreateRoom", ctx, mock.AnythingOfType("model.Room")).Return(nil)
		publisher.On("Ensure", mock.Anything)
		publisher.On("Publish", mock.Anything, mock.Anything)
		activity.On("Touch", ctx, mock.Anything).Return(nil)

		// The final creation crosses the period boundary, no other
		// goroutine may trigger a second sweep.
		activity.On("IdleBefore", ctx, mock.AnythingOfType("time.Time")).
			Return(nil, nil).Once()

		var failures atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perWorker; j++ {
					if _, err := usecase.Create(ctx, "Sprint 1", "Alice"); err != nil {
						failures.Add(1)
					}
				}
			}()
		}
		wg.Wait()

		assert.Zero(t, failures.Load())
	})
}

func TestUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseRoomUnitSuite))
}
