package infra_postgres_vote

import (
	"context"
	"database/sql"
	"errors"

	"github.com/addy/pointing-poker-api/internal/model"
	usecase_vote "github.com/addy/pointing-poker-api/internal/usecase/vote"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type voteDTO struct {
	UserID uuid.UUID `db:"user_id"`
	Vote   string    `db:"vote"`
}

// AddVote upserts, a second vote from the same user overwrites the
// first. The room must exist and the vote must have a storable value.
func (d *Driver) AddVote(ctx context.Context, roomID model.RoomID, userID model.UserID, vote model.Vote) error {
	value, ok := vote.Value()
	if !ok {
		return usecase_vote.ErrInvalidVote
	}

	var exists bool
	existsQuery := `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)`
	if err := d.db.GetContext(ctx, &exists, existsQuery, roomID); err != nil {
		return err
	}
	if !exists {
		return usecase_vote.ErrResourceNotFound
	}

	query := `
        INSERT INTO votes (user_id, room_id, vote)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id)
        DO UPDATE SET vote = EXCLUDED.vote
    `

	_, err := d.db.ExecContext(ctx, query, userID, roomID, value)
	return err
}

func (d *Driver) RemoveVote(ctx context.Context, userID model.UserID) error {
	query := `
        DELETE FROM votes
        WHERE user_id = $1
    `

	_, err := d.db.ExecContext(ctx, query, userID)
	return err
}

func (d *Driver) VotesByRoom(ctx context.Context, roomID model.RoomID) (map[model.UserID]model.Vote, error) {
	var dtos []voteDTO

	query := `
        SELECT user_id, vote
        FROM votes
        WHERE room_id = $1
    `

	if err := d.db.SelectContext(ctx, &dtos, query, roomID); err != nil {
		return nil, err
	}

	votes := make(map[model.UserID]model.Vote, len(dtos))
	for _, dto := range dtos {
		vote, err := model.ParseVote(dto.Vote)
		if err != nil {
			return nil, err
		}
		votes[dto.UserID] = vote
	}

	return votes, nil
}

// ResetVotesForRoom clears the votes and returns the room to voting as
// one transaction, a reset is meaningless without the state change.
func (d *Driver) ResetVotesForRoom(ctx context.Context, roomID model.RoomID) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteQuery := `DELETE FROM votes WHERE room_id = $1`
	if _, err := tx.ExecContext(ctx, deleteQuery, roomID); err != nil {
		return err
	}

	updateQuery := `UPDATE rooms SET state = $1 WHERE id = $2`
	result, err := tx.ExecContext(ctx, updateQuery, string(model.StateVoting), roomID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return usecase_vote.ErrResourceNotFound
	}

	return tx.Commit()
}

// RevealVotes transitions the room to revealed. The ownership check
// lives here so the invariant holds regardless of caller.
func (d *Driver) RevealVotes(ctx context.Context, roomID model.RoomID, userID model.UserID) error {
	if err := d.checkOwner(ctx, roomID, userID); err != nil {
		return err
	}

	query := `
        UPDATE rooms
        SET state = $1
        WHERE id = $2
    `

	_, err := d.db.ExecContext(ctx, query, string(model.StateRevealed), roomID)
	return err
}

func (d *Driver) ResetVotes(ctx context.Context, roomID model.RoomID, userID model.UserID) error {
	if err := d.checkOwner(ctx, roomID, userID); err != nil {
		return err
	}

	return d.ResetVotesForRoom(ctx, roomID)
}

func (d *Driver) checkOwner(ctx context.Context, roomID model.RoomID, userID model.UserID) error {
	var ownerID uuid.NullUUID

	query := `
        SELECT owner_id
        FROM rooms
        WHERE id = $1
    `

	err := d.db.GetContext(ctx, &ownerID, query, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return usecase_vote.ErrResourceNotFound
		}
		return err
	}

	if !ownerID.Valid || ownerID.UUID != userID {
		return usecase_vote.ErrForbidden
	}

	return nil
}
