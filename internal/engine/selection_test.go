package engine

import (
	"testing"

	"github.com/lox/whist/internal/whist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionState(t *testing.T) {
	p := whist.NewPlayer("You", true)

	t.Run("take once", func(t *testing.T) {
		s := NewSelectionState()
		require.NoError(t, s.Arm(AwaitBid, p))
		assert.True(t, s.Awaiting(AwaitBid))
		assert.False(t, s.Awaiting(AwaitCard))
		assert.Equal(t, p, s.Player())

		assert.False(t, s.Take(AwaitCard))
		assert.True(t, s.Take(AwaitBid))
		assert.False(t, s.Take(AwaitBid))
		assert.Nil(t, s.Player())
		assert.Equal(t, AwaitNone, s.Kind())
	})

	t.Run("one kind at a time", func(t *testing.T) {
		s := NewSelectionState()
		require.NoError(t, s.Arm(AwaitCard, p))
		assert.ErrorIs(t, s.Arm(AwaitBid, p), ErrIllegalValue)
		assert.Equal(t, AwaitCard, s.Kind())
		assert.ErrorIs(t, s.Arm(AwaitNone, p), ErrIllegalValue)
		assert.ErrorIs(t, s.Arm(AwaitCard, nil), ErrNilArgument)
	})

	t.Run("hover", func(t *testing.T) {
		s := NewSelectionState()
		assert.False(t, s.Hover(2), "nothing awaited")

		require.NoError(t, s.Arm(AwaitCard, p))
		_, ok := s.Candidate()
		assert.False(t, ok)

		assert.True(t, s.Hover(2))
		assert.False(t, s.Hover(2))
		c, ok := s.Candidate()
		assert.True(t, ok)
		assert.Equal(t, 2, c)

		assert.True(t, s.Hover(-1))
		_, ok = s.Candidate()
		assert.False(t, ok)

		s.Hover(3)
		s.Take(AwaitCard)
		_, ok = s.Candidate()
		assert.False(t, ok)
	})
}
