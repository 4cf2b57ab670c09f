package usecase_vote

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/addy/pointing-poker-api/internal/model"
)

var (
	ErrResourceNotFound = errors.New("no such resource")
	ErrInvalidVote      = errors.New("invalid vote value")
	ErrForbidden        = errors.New("room owner required")
	ErrInternal         = errors.New("internal error")
)

//go:generate mockery --name=VoteRepository --output=./mocks --filename=repository.go
type VoteRepository interface {
	AddVote(ctx context.Context, roomID model.RoomID, userID model.UserID, vote model.Vote) error
	RevealVotes(ctx context.Context, roomID model.RoomID, userID model.UserID) error
	ResetVotes(ctx context.Context, roomID model.RoomID, userID model.UserID) error
}

//go:generate mockery --name=RoomProvider --output=./mocks --filename=rooms.go
type RoomProvider interface {
	Room(ctx context.Context, roomID model.RoomID) (*model.Room, error)
}

//go:generate mockery --name=EventPublisher --output=./mocks --filename=publisher.go
type EventPublisher interface {
	Publish(roomID model.RoomID, event model.RoomEvent)
}

type Usecase struct {
	votes     VoteRepository
	rooms     RoomProvider
	publisher EventPublisher
	activity  ActivityToucher
	logger    *slog.Logger
}

// ActivityToucher marks a room as recently used so the idle sweep
// skips it.
type ActivityToucher interface {
	Touch(ctx context.Context, roomID model.RoomID) error
}

type UsecaseOption func(*Usecase)

func WithLogger(logger *slog.Logger) UsecaseOption {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithActivityToucher(activity ActivityToucher) UsecaseOption {
	return func(u *Usecase) {
		u.activity = activity
	}
}

func New(
	votes VoteRepository,
	rooms RoomProvider,
	publisher EventPublisher,
	opts ...UsecaseOption,
) *Usecase {
	u := &Usecase{
		votes:     votes,
		rooms:     rooms,
		publisher: publisher,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Submit parses and records a vote. A second vote from the same user
// overwrites the first. The published event carries only the user id.
func (u *Usecase) Submit(ctx context.Context, roomID model.RoomID, userID model.UserID, raw string) error {
	vote, err := model.ParseVote(raw)
	if err != nil {
		return errors.Join(ErrInvalidVote, err)
	}

	if err := u.votes.AddVote(ctx, roomID, userID, vote); err != nil {
		if errors.Is(err, ErrResourceNotFound) || errors.Is(err, ErrInvalidVote) {
			return err
		}
		return errors.Join(ErrInternal, err)
	}

	u.publisher.Publish(roomID, model.NewVoteSubmittedEvent(userID))
	u.touch(ctx, roomID)

	return nil
}

// Reveal transitions the room to revealed (gateway enforces the owner
// check) and publishes the vote values of every user who both voted
// and is still a member.
func (u *Usecase) Reveal(ctx context.Context, roomID model.RoomID, userID model.UserID) error {
	if err := u.votes.RevealVotes(ctx, roomID, userID); err != nil {
		if errors.Is(err, ErrResourceNotFound) || errors.Is(err, ErrForbidden) {
			return err
		}
		return errors.Join(ErrInternal, err)
	}

	room, err := u.rooms.Room(ctx, roomID)
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	if room != nil {
		u.publisher.Publish(roomID, model.NewVotesRevealedEvent(revealedVotes(room)))
	}

	u.touch(ctx, roomID)
	return nil
}

func (u *Usecase) Reset(ctx context.Context, roomID model.RoomID, userID model.UserID) error {
	if err := u.votes.ResetVotes(ctx, roomID, userID); err != nil {
		if errors.Is(err, ErrResourceNotFound) || errors.Is(err, ErrForbidden) {
			return err
		}
		return errors.Join(ErrInternal, err)
	}

	u.publisher.Publish(roomID, model.NewVotesResetEvent())
	u.touch(ctx, roomID)

	return nil
}

// revealedVotes skips votes whose user already left the room, a vote
// can outlive its user when leave and reveal interleave.
func revealedVotes(room *model.Room) []model.RevealedVote {
	votes := make([]model.RevealedVote, 0, len(room.Votes))
	for userID, vote := range room.Votes {
		if _, ok := room.Users[userID]; !ok {
			continue
		}
		value, ok := vote.Value()
		if !ok {
			continue
		}
		votes = append(votes, model.RevealedVote{UserID: userID, Value: value})
	}

	sort.Slice(votes, func(i, j int) bool {
		return votes[i].UserID.String() < votes[j].UserID.String()
	})

	return votes
}

func (u *Usecase) touch(ctx context.Context, roomID model.RoomID) {
	if u.activity == nil {
		return
	}
	if err := u.activity.Touch(ctx, roomID); err != nil {
		u.logger.Error("failed to touch room activity",
			slog.String("room_id", roomID.String()),
			slog.String("error", err.Error()))
	}
}
