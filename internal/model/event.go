package model

type EventType string

const (
	EventRoomUpdated   EventType = "ROOM_UPDATED"
	EventUserJoined    EventType = "USER_JOINED"
	EventUserLeft      EventType = "USER_LEFT"
	EventVoteSubmitted EventType = "VOTE_SUBMITTED"
	EventVotesRevealed EventType = "VOTES_REVEALED"
	EventVotesReset    EventType = "VOTES_RESET"
)

// RoomEvent is the envelope delivered to every connection subscribed to
// a room. Events are transient and never persisted.
type RoomEvent struct {
	Type    EventType `json:"eventType"`
	Payload any       `json:"payload"`
}

type RoomUpdatedPayload struct {
	RoomID RoomID `json:"roomId"`
}

type UserLeftPayload struct {
	UserID UserID `json:"userId"`
}

type VoteSubmittedPayload struct {
	UserID UserID `json:"userId"`
}

type RevealedVote struct {
	UserID UserID `json:"userId"`
	Value  string `json:"value"`
}

type VotesRevealedPayload struct {
	Votes []RevealedVote `json:"votes"`
}

type VotesResetPayload struct{}

func NewRoomUpdatedEvent(roomID RoomID) RoomEvent {
	return RoomEvent{Type: EventRoomUpdated, Payload: RoomUpdatedPayload{RoomID: roomID}}
}

func NewUserJoinedEvent(user User) RoomEvent {
	return RoomEvent{Type: EventUserJoined, Payload: user}
}

func NewUserLeftEvent(userID UserID) RoomEvent {
	return RoomEvent{Type: EventUserLeft, Payload: UserLeftPayload{UserID: userID}}
}

func NewVoteSubmittedEvent(userID UserID) RoomEvent {
	// The vote value is withheld on purpose, votes stay hidden until reveal.
	return RoomEvent{Type: EventVoteSubmitted, Payload: VoteSubmittedPayload{UserID: userID}}
}

func NewVotesRevealedEvent(votes []RevealedVote) RoomEvent {
	return RoomEvent{Type: EventVotesRevealed, Payload: VotesRevealedPayload{Votes: votes}}
}

func NewVotesResetEvent() RoomEvent {
	return RoomEvent{Type: EventVotesReset, Payload: VotesResetPayload{}}
}
