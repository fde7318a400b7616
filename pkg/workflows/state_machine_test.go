package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionLifecycle(t *testing.T) {
	sm := NewPositionStateMachine()

	assert.True(t, sm.CanTransition("active", "repaid"))
	assert.True(t, sm.CanTransition("active", "liquidated"))
	assert.True(t, sm.CanTransition("active", "defaulted"))

	// Closed positions never reopen or move again
	assert.False(t, sm.CanTransition("repaid", "active"))
	assert.False(t, sm.CanTransition("repaid", "repaid"))
	assert.False(t, sm.CanTransition("liquidated", "repaid"))
	assert.False(t, sm.CanTransition("defaulted", "active"))
}

func TestTokenizationLifecycle(t *testing.T) {
	sm := NewTokenizationStateMachine()

	assert.True(t, sm.CanTransition("pending", "in_progress"))
	assert.True(t, sm.CanTransition("in_progress", "tokenized"))
	assert.True(t, sm.CanTransition("in_progress", "failed"))
	assert.True(t, sm.CanTransition("failed", "in_progress"))

	assert.False(t, sm.CanTransition("pending", "tokenized"))
	assert.False(t, sm.CanTransition("tokenized", "pending"))
	assert.False(t, sm.CanTransition("tokenized", "failed"))
}

func TestUnknownStatus(t *testing.T) {
	sm := NewPositionStateMachine()

	assert.False(t, sm.CanTransition("archived", "active"))
	assert.Nil(t, sm.GetAllowedTransitions("archived"))
}
