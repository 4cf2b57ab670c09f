package model

import "github.com/google/uuid"

type RoomID = uuid.UUID

type UserID = uuid.UUID

func NewRoomID() RoomID {
	return uuid.New()
}

func NewUserID() UserID {
	return uuid.New()
}

func ParseRoomID(s string) (RoomID, error) {
	return uuid.Parse(s)
}

func ParseUserID(s string) (UserID, error) {
	return uuid.Parse(s)
}
