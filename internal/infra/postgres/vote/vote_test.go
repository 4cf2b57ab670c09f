package infra_postgres_vote

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"

	"github.com/addy/pointing-poker-api/internal/model"
	usecase_vote "github.com/addy/pointing-poker-api/internal/usecase/vote"
)

type VoteInfraUnitSuite struct {
	suite.Suite
}

type resources struct {
	db     *sqlx.DB
	mock   sqlmock.Sqlmock
	driver *Driver
	ctx    context.Context
}

func initResources(t provider.T) *resources {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")

	return &resources{
		db:     sqlxDB,
		mock:   mock,
		driver: New(sqlxDB),
		ctx:    context.Background(),
	}
}

func expectOwnerRow(r *resources, roomID model.RoomID, ownerID interface{}) {
	r.mock.ExpectQuery("SELECT owner_id").
		WithArgs(roomID).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(ownerID))
}

func (s *VoteInfraUnitSuite) TestAddVote(t provider.T) {
	t.Parallel()

	t.Run("Should upsert vote when room exists", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()
		userID := model.NewUserID()

		r.mock.ExpectQuery("SELECT EXISTS").
			WithArgs(roomID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		r.mock.ExpectExec("INSERT INTO votes").
			WithArgs(userID, roomID, "8").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := r.driver.AddVote(r.ctx, roomID, userID, model.VoteEight)

		assert.NoError(t, err)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})

	t.Run("Should return not found for missing room", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()

		r.mock.ExpectQuery("SELECT EXISTS").
			WithArgs(roomID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := r.driver.AddVote(r.ctx, roomID, model.NewUserID(), model.VoteOne)

		assert.ErrorIs(t, err, usecase_vote.ErrResourceNotFound)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})

	t.Run("Should reject vote without storable value", func(t provider.T) {
		r := initResources(t)

		err := r.driver.AddVote(r.ctx, model.NewRoomID(), model.NewUserID(), model.VoteHidden)

		assert.ErrorIs(t, err, usecase_vote.ErrInvalidVote)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})
}

func (s *VoteInfraUnitSuite) TestRevealVotes(t provider.T) {
	t.Parallel()

	t.Run("Should set revealed state for the owner", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()
		ownerID := model.NewUserID()

		expectOwnerRow(r, roomID, ownerID.String())
		r.mock.ExpectExec("SET state").
			WithArgs("revealed", roomID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := r.driver.RevealVotes(r.ctx, roomID, ownerID)

		assert.NoError(t, err)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})

	t.Run("Should forbid non-owner", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()

		expectOwnerRow(r, roomID, model.NewUserID().String())

		err := r.driver.RevealVotes(r.ctx, roomID, model.NewUserID())

		assert.ErrorIs(t, err, usecase_vote.ErrForbidden)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})

	t.Run("Should forbid when room has no owner", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()

		expectOwnerRow(r, roomID, nil)

		err := r.driver.RevealVotes(r.ctx, roomID, model.NewUserID())

		assert.ErrorIs(t, err, usecase_vote.ErrForbidden)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})

	t.Run("Should return not found for missing room", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()

		r.mock.ExpectQuery("SELECT owner_id").
			WithArgs(roomID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))

		err := r.driver.RevealVotes(r.ctx, roomID, model.NewUserID())

		assert.ErrorIs(t, err, usecase_vote.ErrResourceNotFound)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})
}

func (s *VoteInfraUnitSuite) TestResetVotes(t provider.T) {
	t.Parallel()

	t.Run("Should clear votes and return room to voting", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()
		ownerID := model.NewUserID()

		expectOwnerRow(r, roomID, ownerID.String())
		r.mock.ExpectBegin()
		r.mock.ExpectExec("DELETE FROM votes").
			WithArgs(roomID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		r.mock.ExpectExec("UPDATE rooms SET state").
			WithArgs("voting", roomID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		r.mock.ExpectCommit()

		err := r.driver.ResetVotes(r.ctx, roomID, ownerID)

		assert.NoError(t, err)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})

	t.Run("Should roll back when room row vanished", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()
		ownerID := model.NewUserID()

		expectOwnerRow(r, roomID, ownerID.String())
		r.mock.ExpectBegin()
		r.mock.ExpectExec("DELETE FROM votes").
			WithArgs(roomID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		r.mock.ExpectExec("UPDATE rooms SET state").
			WithArgs("voting", roomID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		r.mock.ExpectRollback()

		err := r.driver.ResetVotes(r.ctx, roomID, ownerID)

		assert.ErrorIs(t, err, usecase_vote.ErrResourceNotFound)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})
}

func (s *VoteInfraUnitSuite) TestVotesByRoom(t provider.T) {
	t.Parallel()

	t.Run("Should map stored tokens to votes", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()
		first := model.NewUserID()
		second := model.NewUserID()

		r.mock.ExpectQuery("SELECT user_id, vote").
			WithArgs(roomID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "vote"}).
				AddRow(first.String(), "13").
				AddRow(second.String(), "coffee"))

		votes, err := r.driver.VotesByRoom(r.ctx, roomID)

		assert.NoError(t, err)
		assert.Equal(t, model.VoteThirteen, votes[first])
		assert.Equal(t, model.VoteCoffee, votes[second])
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})

	t.Run("Should fail on a token that does not parse", func(t provider.T) {
		r := initResources(t)
		roomID := model.NewRoomID()

		r.mock.ExpectQuery("SELECT user_id, vote").
			WithArgs(roomID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "vote"}).
				AddRow(model.NewUserID().String(), "tea"))

		_, err := r.driver.VotesByRoom(r.ctx, roomID)

		assert.ErrorIs(t, err, model.ErrUnknownVote)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})
}

func (s *VoteInfraUnitSuite) TestRemoveVote(t provider.T) {
	t.Parallel()

	t.Run("Should delete the user vote", func(t provider.T) {
		r := initResources(t)
		userID := model.NewUserID()

		r.mock.ExpectExec("DELETE FROM votes").
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := r.driver.RemoveVote(r.ctx, userID)

		assert.NoError(t, err)
		assert.NoError(t, r.mock.ExpectationsWereMet())
	})
}

func TestVoteInfraUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(VoteInfraUnitSuite))
}
