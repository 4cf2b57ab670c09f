package model

type RoomState string

const (
	StateVoting   RoomState = "voting"
	StateRevealed RoomState = "revealed"
)

type Room struct {
	ID      RoomID          `json:"id"`
	Name    string          `json:"name"`
	State   RoomState       `json:"state"`
	Users   map[UserID]User `json:"users"`
	Votes   map[UserID]Vote `json:"votes"`
	OwnerID *UserID         `json:"ownerId"`
}

// NewRoom builds a room in the voting state. When an owner is given,
// it becomes the room's first user.
func NewRoom(name string, owner *User) Room {
	room := Room{
		ID:    NewRoomID(),
		Name:  name,
		State: StateVoting,
		Users: make(map[UserID]User),
		Votes: make(map[UserID]Vote),
	}

	if owner != nil {
		room.Users[owner.ID] = *owner
		ownerID := owner.ID
		room.OwnerID = &ownerID
	}

	return room
}
