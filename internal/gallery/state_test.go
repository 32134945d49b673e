package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextAndPrevious(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageCount int
		next      int
		previous  int
	}{
		{name: "first of three", page: 0, pageCount: 3, next: 1, previous: 0},
		{name: "middle of three", page: 1, pageCount: 3, next: 2, previous: 0},
		{name: "last of three", page: 2, pageCount: 3, next: 2, previous: 1},
		{name: "single page", page: 0, pageCount: 1, next: 0, previous: 0},
		{name: "empty", page: 0, pageCount: 0, next: 0, previous: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Page: tt.page}
			assert.Equal(t, State{Page: tt.next}, Next(s, tt.pageCount))
			assert.Equal(t, State{Page: tt.previous}, Previous(s, tt.pageCount))
		})
	}
}

func TestNextPreviousRoundTrip(t *testing.T) {
	const pageCount = 6
	for page := 1; page < pageCount-1; page++ {
		s := State{Page: page}
		assert.Equal(t, s, Previous(Next(s, pageCount), pageCount))
		assert.Equal(t, s, Next(Previous(s, pageCount), pageCount))
	}
}

func TestCanNavigate(t *testing.T) {
	assert.False(t, CanPrevious(State{}, 0))
	assert.False(t, CanNext(State{}, 0))
	assert.False(t, CanPrevious(State{}, 2))
	assert.True(t, CanNext(State{}, 2))
	assert.True(t, CanPrevious(State{Page: 1}, 2))
	assert.False(t, CanNext(State{Page: 1}, 2))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, State{Page: 2}, Clamp(State{Page: 2}, 3))
	assert.Equal(t, State{}, Clamp(State{Page: 3}, 3))
	assert.Equal(t, State{}, Clamp(State{Page: 5}, 0))
	assert.Equal(t, State{}, Clamp(State{Page: -2}, 3))
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("next")
	assert.NoError(t, err)
	assert.Equal(t, ActionNext, a)

	a, err = ParseAction("previous")
	assert.NoError(t, err)
	assert.Equal(t, ActionPrevious, a)

	_, err = ParseAction("jump")
	assert.Error(t, err)
}
