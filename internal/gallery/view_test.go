package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tiles(names ...string) []Tile {
	out := make([]Tile, len(names))
	for i, n := range names {
		out[i] = Tile{Index: i, Name: n}
	}
	return out
}

func names(ts []Tile) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func TestPageLabel(t *testing.T) {
	assert.Equal(t, "", PageLabel(0, 0))
	assert.Equal(t, "Page 1 of 1", PageLabel(0, 1))
	assert.Equal(t, "Page 3 of 7", PageLabel(2, 7))
}

func TestViewColumns(t *testing.T) {
	v := View{Settings: Settings{Columns: 3}, Tiles: tiles("a", "b", "c", "d", "e")}

	cols := v.Columns()
	assert.Len(t, cols, 3)
	assert.Equal(t, []string{"a", "d"}, names(cols[0]))
	assert.Equal(t, []string{"b", "e"}, names(cols[1]))
	assert.Equal(t, []string{"c"}, names(cols[2]))
}

func TestViewRows(t *testing.T) {
	v := View{Settings: Settings{Columns: 2}, Tiles: tiles("a", "b", "c")}

	rows := v.Rows()
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "b"}, names(rows[0]))
	assert.Equal(t, []string{"c"}, names(rows[1]))

	assert.Empty(t, View{Settings: Settings{Columns: 2}}.Rows())
}

func TestViewFailures(t *testing.T) {
	v := View{Tiles: []Tile{{Name: "a"}, {Name: "b", Error: "bad"}, {Name: "c", Error: "worse"}}}
	assert.Equal(t, 2, v.Failures())
	assert.True(t, v.Tiles[1].Failed())
	assert.False(t, v.Tiles[0].Failed())
}
