package http_room

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/addy/pointing-poker-api/internal/delivery/http/common"
	"github.com/addy/pointing-poker-api/internal/model"
	usecase_room "github.com/addy/pointing-poker-api/internal/usecase/room"
)

type Controller struct {
	usecase *usecase_room.Usecase
	logger  *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(usecase *usecase_room.Usecase, opts ...ControllerOption) *Controller {
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
	rooms := router.Group("/rooms")
	{
		rooms.POST("", c.create)
		rooms.GET("/:room_id", c.get)
		rooms.POST("/:room_id/join", c.join)
		rooms.POST("/:room_id/leave/:user_id", c.leave)
	}
}

type CreateRoomRequestDTO struct {
	Name        string `json:"name" binding:"required"`
	CreatorName string `json:"creatorName"`
}

func (c *Controller) create(ctx *gin.Context) {
	var req CreateRoomRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid request format"))
		return
	}

	room, err := c.usecase.Create(ctx, req.Name, req.CreatorName)
	if err != nil {
		c.logger.Error("failed to create room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.NewError(http.StatusInternalServerError, "internal error"))
		return
	}

	ctx.JSON(http.StatusCreated, room)
}

func (c *Controller) get(ctx *gin.Context) {
	roomID, ok := c.roomID(ctx)
	if !ok {
		return
	}

	room, err := c.usecase.Room(ctx, roomID)
	if err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.NewError(http.StatusNotFound, "room not found"))
			return
		}
		c.logger.Error("failed to get room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.NewError(http.StatusInternalServerError, "internal error"))
		return
	}

	ctx.JSON(http.StatusOK, room)
}

type JoinRoomRequestDTO struct {
	Name       string `json:"name" binding:"required"`
	IsObserver bool   `json:"isObserver"`
}

func (c *Controller) join(ctx *gin.Context) {
	roomID, ok := c.roomID(ctx)
	if !ok {
		return
	}

	var req JoinRoomRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid request format"))
		return
	}

	user, err := c.usecase.Join(ctx, roomID, req.Name, req.IsObserver)
	if err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.NewError(http.StatusNotFound, "room not found"))
			return
		}
		c.logger.Error("failed to join room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.NewError(http.StatusInternalServerError, "internal error"))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

func (c *Controller) leave(ctx *gin.Context) {
	roomID, ok := c.roomID(ctx)
	if !ok {
		return
	}

	userID, err := model.ParseUserID(ctx.Param("user_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid user ID"))
		return
	}

	user, err := c.usecase.Leave(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.NewError(http.StatusNotFound, "user not found in room"))
			return
		}
		c.logger.Error("failed to leave room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.NewError(http.StatusInternalServerError, "internal error"))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

func (c *Controller) roomID(ctx *gin.Context) (model.RoomID, bool) {
	roomID, err := model.ParseRoomID(ctx.Param("room_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid room ID"))
		return roomID, false
	}
	return roomID, true
}
