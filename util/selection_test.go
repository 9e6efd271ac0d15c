package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vuzon/vuzon/types"
)

func addr(email string, verified interface{}) types.DestinationAddress {
	return types.DestinationAddress{Email: email, Verified: types.NewVerificationSignal(verified)}
}

func TestSelectDestinationEmptyList(t *testing.T) {
	selected, hasEnabled := SelectDestination(nil, "x")
	assert.Equal(t, "", selected)
	assert.False(t, hasEnabled)
}

func TestSelectDestinationPreservesPreviousVerified(t *testing.T) {
	items := []types.DestinationAddress{
		addr("a@x", false),
		addr("b@x", true),
		addr("c@x", true),
	}
	selected, hasEnabled := SelectDestination(items, "c@x")
	assert.Equal(t, "c@x", selected)
	assert.True(t, hasEnabled)
}

func TestSelectDestinationFallsBackToFirstVerified(t *testing.T) {
	items := []types.DestinationAddress{
		addr("a@x", false),
		addr("b@x", true),
		addr("c@x", true),
	}
	// previous value points at an unverified row
	selected, hasEnabled := SelectDestination(items, "a@x")
	assert.Equal(t, "b@x", selected)
	assert.True(t, hasEnabled)
}

func TestSelectDestinationNeverSelectsUnverified(t *testing.T) {
	items := []types.DestinationAddress{
		addr("a@x", "pending"),
		addr("b@x", nil),
	}
	selected, hasEnabled := SelectDestination(items, "a@x")
	assert.Equal(t, "", selected)
	assert.False(t, hasEnabled)
}

func TestSelectDestinationSkipsEntriesWithoutEmail(t *testing.T) {
	items := []types.DestinationAddress{
		addr("", true),
		addr("b@x", true),
	}
	selected, hasEnabled := SelectDestination(items, "")
	assert.Equal(t, "b@x", selected)
	assert.True(t, hasEnabled)
}

func TestSelectDestinationEarliestMatchWins(t *testing.T) {
	items := []types.DestinationAddress{
		addr("b@x", true),
		addr("c@x", true),
		addr("c@x", true), // duplicate later in the list
	}
	selected, hasEnabled := SelectDestination(items, "c@x")
	assert.Equal(t, "c@x", selected)
	assert.True(t, hasEnabled)
}
