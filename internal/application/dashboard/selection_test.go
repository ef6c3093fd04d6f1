package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionHoldsAtMostOne(t *testing.T) {
	s := NewSelection()
	assert.False(t, s.IsOpen())

	x, y := gen("x", 1, 1), gen("y", 1, 1)
	s.Select(x)
	s.Select(y)

	assert.Same(t, y, s.Current())
	assert.True(t, s.IsOpen())

	s.Clear()
	assert.Nil(t, s.Current())
	assert.False(t, s.IsOpen())

	s.Select(x)
	s.Select(nil)
	assert.Nil(t, s.Current())
}

func TestSelectionKeepsReference(t *testing.T) {
	s := NewSelection()
	x := gen("x", 1, 1)
	s.Select(x)

	x.Name = "renamed-upstream"
	assert.Equal(t, "renamed-upstream", s.Current().Name)
}
