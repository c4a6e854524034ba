package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateTerminal(t *testing.T) {
	assert.True(t, StateDone.Terminal())
	assert.True(t, StateBlocked.Terminal())
	assert.True(t, StateFailed.Terminal())

	assert.False(t, StateIdle.Terminal())
	assert.False(t, StateCheckingEntitlement.Terminal())
	assert.False(t, StateRasterizing.Terminal())
	assert.False(t, StateAssembling.Terminal())
	assert.False(t, StateCrediting.Terminal())
	assert.False(t, StatePersisting.Terminal())
}
