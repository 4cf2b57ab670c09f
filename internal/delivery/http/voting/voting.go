package http_voting

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/addy/pointing-poker-api/internal/delivery/http/common"
	"github.com/addy/pointing-poker-api/internal/model"
	usecase_vote "github.com/addy/pointing-poker-api/internal/usecase/vote"
)

type Controller struct {
	usecase *usecase_vote.Usecase
	logger  *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(usecase *usecase_vote.Usecase, opts ...ControllerOption) *Controller {
	c := &Controller{
		usecase: usecase,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	rooms := router.Group("/rooms/:room_id")
	{
		rooms.POST("/vote", c.vote)
		rooms.POST("/reveal", c.reveal)
		rooms.POST("/reset", c.reset)
	}
}

type VoteValueDTO struct {
	Value string `json:"value" binding:"required"`
}

type SubmitVoteRequestDTO struct {
	UserID string       `json:"userId" binding:"required"`
	Vote   VoteValueDTO `json:"vote" binding:"required"`
}

type AdminActionRequestDTO struct {
	UserID string `json:"userId" binding:"required"`
}

type StatusResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Controller) vote(ctx *gin.Context) {
	roomID, ok := c.roomID(ctx)
	if !ok {
		return
	}

	var req SubmitVoteRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid request format"))
		return
	}

	userID, err := model.ParseUserID(req.UserID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid user ID"))
		return
	}

	if err := c.usecase.Submit(ctx, roomID, userID, req.Vote.Value); err != nil {
		c.respondError(ctx, "failed to submit vote", err)
		return
	}

	ctx.JSON(http.StatusOK, StatusResponseDTO{
		Success: true,
		Message: "Vote submitted successfully",
	})
}

func (c *Controller) reveal(ctx *gin.Context) {
	roomID, userID, ok := c.adminAction(ctx)
	if !ok {
		return
	}

	if err := c.usecase.Reveal(ctx, roomID, userID); err != nil {
		c.respondError(ctx, "failed to reveal votes", err)
		return
	}

	ctx.JSON(http.StatusOK, StatusResponseDTO{
		Success: true,
		Message: "Votes revealed successfully",
	})
}

func (c *Controller) reset(ctx *gin.Context) {
	roomID, userID, ok := c.adminAction(ctx)
	if !ok {
		return
	}

	if err := c.usecase.Reset(ctx, roomID, userID); err != nil {
		c.respondError(ctx, "failed to reset votes", err)
		return
	}

	ctx.JSON(http.StatusOK, StatusResponseDTO{
		Success: true,
		Message: "Votes reset successfully",
	})
}

func (c *Controller) adminAction(ctx *gin.Context) (model.RoomID, model.UserID, bool) {
	roomID, ok := c.roomID(ctx)
	if !ok {
		return roomID, model.UserID{}, false
	}

	var req AdminActionRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid request format"))
		return roomID, model.UserID{}, false
	}

	userID, err := model.ParseUserID(req.UserID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid user ID"))
		return roomID, userID, false
	}

	return roomID, userID, true
}

func (c *Controller) respondError(ctx *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, usecase_vote.ErrResourceNotFound):
		ctx.JSON(http.StatusNotFound, http_common.NewError(http.StatusNotFound, "room not found"))
	case errors.Is(err, usecase_vote.ErrInvalidVote):
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid vote value"))
	case errors.Is(err, usecase_vote.ErrForbidden):
		ctx.JSON(http.StatusForbidden, http_common.NewError(http.StatusForbidden, "only the room owner can do that"))
	default:
		c.logger.Error(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.NewError(http.StatusInternalServerError, "internal error"))
	}
}

func (c *Controller) roomID(ctx *gin.Context) (model.RoomID, bool) {
	roomID, err := model.ParseRoomID(ctx.Param("room_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid room ID"))
		return roomID, false
	}
	return roomID, true
}
