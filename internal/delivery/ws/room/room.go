package ws_room

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	http_common "github.com/addy/pointing-poker-api/internal/delivery/http/common"
	"github.com/addy/pointing-poker-api/internal/model"
	usecase_room "github.com/addy/pointing-poker-api/internal/usecase/room"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Controller struct {
	hub     *Hub
	usecase *usecase_room.Usecase
	logger  *slog.Logger
}

func NewController(hub *Hub, usecase *usecase_room.Usecase) *Controller {
	return &Controller{
		hub:     hub,
		usecase: usecase,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws/rooms/:room_id/users/:user_id", c.subscribe)
}

// subscribe upgrades the connection and streams the room's events. The
// room must exist and the user must already be a member.
func (c *Controller) subscribe(ctx *gin.Context) {
	roomID, err := model.ParseRoomID(ctx.Param("room_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid room ID"))
		return
	}

	userID, err := model.ParseUserID(ctx.Param("user_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "invalid user ID"))
		return
	}

	room, err := c.usecase.Room(ctx, roomID)
	if err != nil {
		if errors.Is(err, usecase_room.ErrResourceNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.NewError(http.StatusNotFound, "room not found"))
			return
		}
		c.logger.Error("failed to load room for subscription", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.NewError(http.StatusInternalServerError, "internal error"))
		return
	}

	if _, ok := room.Users[userID]; !ok {
		ctx.JSON(http.StatusBadRequest, http_common.NewError(http.StatusBadRequest, "user not in room"))
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade connection", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		hub:    c.hub,
		conn:   conn,
		send:   make(chan model.RoomEvent, sendBufferSize),
		roomID: roomID,
		userID: userID,
	}

	c.hub.register(client)

	go client.writeLoop()
	go client.readLoop()
}
