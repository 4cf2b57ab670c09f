package infra_postgres_room

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/addy/pointing-poker-api/internal/model"
	usecase_room "github.com/addy/pointing-poker-api/internal/usecase/room"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type roomDTO struct {
	ID      uuid.UUID     `db:"id"`
	Name    string        `db:"name"`
	State   string        `db:"state"`
	OwnerID uuid.NullUUID `db:"owner_id"`
}

type userDTO struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	IsObserver bool      `db:"is_observer"`
	RoomID     uuid.UUID `db:"room_id"`
	JoinedAt   time.Time `db:"joined_at"`
}

type voteDTO struct {
	UserID uuid.UUID `db:"user_id"`
	Vote   string    `db:"vote"`
}

// CreateRoom inserts the room row and its initial users in one
// transaction.
func (d *Driver) CreateRoom(ctx context.Context, room model.Room) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	dto := roomDTO{
		ID:    room.ID,
		Name:  room.Name,
		State: string(room.State),
	}
	if room.OwnerID != nil {
		dto.OwnerID = uuid.NullUUID{UUID: *room.OwnerID, Valid: true}
	}

	query := `
		INSERT INTO rooms (id, name, state, owner_id)
		VALUES (:id, :name, :state, :owner_id)
	`

	if _, err := tx.NamedExecContext(ctx, query, dto); err != nil {
		return err
	}

	for _, user := range room.Users {
		if err := insertUser(ctx, tx, user, room.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Room assembles a consistent-at-read-time snapshot of the room, its
// users and its votes. A missing room is nil, not an error.
func (d *Driver) Room(ctx context.Context, roomID model.RoomID) (*model.Room, error) {
	var dto roomDTO

	query := `
        SELECT id, name, state, owner_id
        FROM rooms
        WHERE id = $1
    `

	err := d.db.GetContext(ctx, &dto, query, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	users, err := d.UsersByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	votes, err := d.VotesByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		ID:    dto.ID,
		Name:  dto.Name,
		State: model.RoomState(dto.State),
		Users: users,
		Votes: votes,
	}
	if dto.OwnerID.Valid {
		ownerID := dto.OwnerID.UUID
		room.OwnerID = &ownerID
	}

	return room, nil
}

func (d *Driver) UsersByRoom(ctx context.Context, roomID model.RoomID) (map[model.UserID]model.User, error) {
	var dtos []userDTO

	query := `
        SELECT id, name, is_observer, room_id, joined_at
        FROM users
        WHERE room_id = $1
    `

	if err := d.db.SelectContext(ctx, &dtos, query, roomID); err != nil {
		return nil, err
	}

	users := make(map[model.UserID]model.User, len(dtos))
	for _, dto := range dtos {
		users[dto.ID] = model.User{
			ID:         dto.ID,
			Name:       dto.Name,
			IsObserver: dto.IsObserver,
		}
	}

	return users, nil
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

func (d *Driver) SetState(ctx context.Context, roomID model.RoomID, state model.RoomState) error {
	query := `
        UPDATE rooms
        SET state = $1
        WHERE id = $2
    `

	result, err := d.db.ExecContext(ctx, query, string(state), roomID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return usecase_room.ErrResourceNotFound
	}

	return nil
}

func (d *Driver) SetOwner(ctx context.Context, roomID model.RoomID, ownerID *model.UserID) error {
	var owner uuid.NullUUID
	if ownerID != nil {
		owner = uuid.NullUUID{UUID: *ownerID, Valid: true}
	}

	query := `
        UPDATE rooms
        SET owner_id = $1
        WHERE id = $2
    `

	result, err := d.db.ExecContext(ctx, query, owner, roomID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return usecase_room.ErrResourceNotFound
	}

	return nil
}

// DeleteRoom reports whether a row existed. Users and votes go with it
// through the cascading foreign keys.
func (d *Driver) DeleteRoom(ctx context.Context, roomID model.RoomID) (bool, error) {
	query := `
        DELETE FROM rooms
        WHERE id = $1
    `

	result, err := d.db.ExecContext(ctx, query, roomID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (d *Driver) AddUser(ctx context.Context, user model.User, roomID model.RoomID) error {
	return insertUser(ctx, d.db, user, roomID)
}

func insertUser(ctx context.Context, execer sqlx.ExtContext, user model.User, roomID model.RoomID) error {
	query := `
		INSERT INTO users (id, name, is_observer, room_id)
		VALUES (:id, :name, :is_observer, :room_id)
	`

	_, err := sqlx.NamedExecContext(ctx, execer, query, userDTO{
		ID:         user.ID,
		Name:       user.Name,
		IsObserver: user.IsObserver,
		RoomID:     roomID,
	})
	return err
}

// RemoveUser deletes the user (their vote cascades) and returns the
// pre-delete record plus the room they belonged to. A missing user is
// nil, not an error.
func (d *Driver) RemoveUser(ctx context.Context, userID model.UserID) (*model.User, model.RoomID, error) {
	var dto userDTO

	query := `
        DELETE FROM users
        WHERE id = $1
        RETURNING id, name, is_observer, room_id, joined_at
    `

	err := d.db.GetContext(ctx, &dto, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, uuid.Nil, nil
		}
		return nil, uuid.Nil, err
	}

	user := &model.User{
		ID:         dto.ID,
		Name:       dto.Name,
		IsObserver: dto.IsObserver,
	}

	return user, dto.RoomID, nil
}

func (d *Driver) CountUsers(ctx context.Context, roomID model.RoomID) (int, error) {
	var count int

	query := `
        SELECT COUNT(*)
        FROM users
        WHERE room_id = $1
    `

	if err := d.db.GetContext(ctx, &count, query, roomID); err != nil {
		return 0, err
	}

	return count, nil
}

// FirstJoinedUser is the owner-succession rule: earliest joined wins,
// id breaks the tie.
func (d *Driver) FirstJoinedUser(ctx context.Context, roomID model.RoomID) (*model.User, error) {
	var dto userDTO

	query := `
        SELECT id, name, is_observer, room_id, joined_at
        FROM users
        WHERE room_id = $1
        ORDER BY joined_at, id
        LIMIT 1
    `

	err := d.db.GetContext(ctx, &dto, query, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &model.User{
		ID:         dto.ID,
		Name:       dto.Name,
		IsObserver: dto.IsObserver,
	}, nil
}
