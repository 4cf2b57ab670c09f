package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownVote = errors.New("unknown vote value")

type Vote string

const (
	VoteZero         Vote = "0"
	VoteOne          Vote = "1"
	VoteTwo          Vote = "2"
	VoteThree        Vote = "3"
	VoteFive         Vote = "5"
	VoteEight        Vote = "8"
	VoteThirteen     Vote = "13"
	VoteTwentyOne    Vote = "21"
	VoteQuestionMark Vote = "?"
	VoteCoffee       Vote = "coffee"

	// VoteHidden has no display value and must never reach storage.
	VoteHidden Vote = "hidden"
)

// Value returns the canonical string form used for storage and for the
// revealed display. The hidden sentinel has none.
func (v Vote) Value() (string, bool) {
	if v == VoteHidden {
		return "", false
	}
	return string(v), true
}

func ParseVote(raw string) (Vote, error) {
	switch strings.ToLower(raw) {
	case "0":
		return VoteZero, nil
	case "1":
		return VoteOne, nil
	case "2":
		return VoteTwo, nil
	case "3":
		return VoteThree, nil
	case "5":
		return VoteFive, nil
	case "8":
		return VoteEight, nil
	case "13":
		return VoteThirteen, nil
	case "21":
		return VoteTwentyOne, nil
	case "?":
		return VoteQuestionMark, nil
	case "coffee":
		return VoteCoffee, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVote, raw)
	}
}
