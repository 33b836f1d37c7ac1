package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPresence(t *testing.T) {
	for _, presence := range []string{PresenceOnline, PresenceBusy, PresenceAway, PresenceOffline} {
		assert.True(t, ValidPresence(presence), presence)
	}
	assert.False(t, ValidPresence("lunch"))
	assert.False(t, ValidPresence(""))
}

func TestHasCapacity(t *testing.T) {
	a := AgentStatus{CurrentChatCount: 2, MaxConcurrentChats: 3}
	assert.True(t, a.HasCapacity())

	a.CurrentChatCount = 3
	assert.False(t, a.HasCapacity())
}

func TestEligible(t *testing.T) {
	base := AgentStatus{
		Presence:           PresenceOnline,
		AutoAssign:         true,
		CurrentChatCount:   0,
		MaxConcurrentChats: 3,
	}
	assert.True(t, base.Eligible())

	busy := base
	busy.Presence = PresenceBusy
	assert.False(t, busy.Eligible())

	optedOut := base
	optedOut.AutoAssign = false
	assert.False(t, optedOut.Eligible())

	full := base
	full.CurrentChatCount = 3
	assert.False(t, full.Eligible())
}
