package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVoteRoundTrip(t *testing.T) {
	votes := []Vote{
		VoteZero, VoteOne, VoteTwo, VoteThree, VoteFive,
		VoteEight, VoteThirteen, VoteTwentyOne, VoteQuestionMark, VoteCoffee,
	}

	for _, vote := range votes {
		value, ok := vote.Value()
		require.True(t, ok, "vote %q must have a value", vote)

		parsed, err := ParseVote(value)
		require.NoError(t, err)
		assert.Equal(t, vote, parsed)
	}
}

func TestParseVoteCaseInsensitive(t *testing.T) {
	parsed, err := ParseVote("COFFEE")
	require.NoError(t, err)
	assert.Equal(t, VoteCoffee, parsed)
}

func TestParseVoteRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "4", "34", "??", "tea", "hidden"} {
		_, err := ParseVote(raw)
		assert.ErrorIs(t, err, ErrUnknownVote, "input %q", raw)
	}
}

func TestHiddenVoteHasNoValue(t *testing.T) {
	_, ok := VoteHidden.Value()
	assert.False(t, ok)
}
