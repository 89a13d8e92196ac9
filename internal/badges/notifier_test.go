package badges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifierDrain(t *testing.T) {
	n := NewNotifier()

	def, _ := ByID(CuriousReader)
	n.enqueue(
		NewlyEarned{BadgeID: CuriousReader, Tier: TierBronze, Definition: def},
		NewlyEarned{BadgeID: CuriousReader, Tier: TierSilver, Definition: def},
	)
	n.enqueue(NewlyEarned{BadgeID: QuizStarter, Tier: TierBronze})

	assert.Equal(t, 3, n.Pending())

	drained := n.Drain()
	assert.Len(t, drained, 3)
	// FIFO by award order.
	assert.Equal(t, TierBronze, drained[0].Tier)
	assert.Equal(t, CuriousReader, drained[0].BadgeID)
	assert.Equal(t, QuizStarter, drained[2].BadgeID)

	assert.Empty(t, n.Drain(), "an immediate second drain returns nothing")
	assert.Zero(t, n.Pending())
}

func TestModalCounterClamp(t *testing.T) {
	n := NewNotifier()

	// Pops without pushes are no-ops.
	n.PopModal()
	n.PopModal()
	n.PopModal()
	assert.False(t, n.ModalActive())

	// Nested modals need matching pops.
	n.PushModal()
	n.PushModal()
	n.PopModal()
	assert.True(t, n.ModalActive())

	n.PopModal()
	assert.False(t, n.ModalActive())

	// The earlier extra pops must not have driven the counter negative.
	n.PushModal()
	assert.True(t, n.ModalActive())
}
