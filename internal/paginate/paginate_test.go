package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPagerPages(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		total int
		last  []int
	}{
		{"empty", 0, 1, nil},
		{"partial", 3, 1, []int{1, 2, 3}},
		{"exact", 10, 2, []int{6, 7, 8, 9, 10}},
		{"overflow", 12, 3, []int{11, 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(seq(tt.n), DefaultSize)
			assert.Equal(t, tt.total, p.Total())
			for p.Next() {
			}
			assert.Equal(t, tt.total, p.Current())
			assert.Equal(t, tt.last, p.Page())
		})
	}
}

func TestPagerNavigationBounds(t *testing.T) {
	p := New(seq(7), 5)
	assert.False(t, p.Prev())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.Page())
	assert.True(t, p.Next())
	assert.False(t, p.Next())
	assert.True(t, p.Prev())
	assert.Equal(t, 1, p.Current())

	p.Goto(99)
	assert.Equal(t, 2, p.Current())
	p.Goto(-1)
	assert.Equal(t, 1, p.Current())
}

func TestPagerInvalidSize(t *testing.T) {
	p := New(seq(6), 0)
	assert.Equal(t, 2, p.Total())
}

func TestPagerRemoveStepsBack(t *testing.T) {
	p := New(seq(6), 5)
	p.Next()
	assert.Equal(t, []int{6}, p.Page())

	assert.True(t, p.Remove(func(v int) bool { return v == 6 }))
	assert.Equal(t, 1, p.Current(), "emptied last page steps back")
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.Page())

	assert.True(t, p.Remove(func(v int) bool { return v == 2 }))
	assert.Equal(t, []int{1, 3, 4, 5}, p.Page())
	assert.False(t, p.Remove(func(v int) bool { return v == 42 }))
}

func TestPagerRemoveDoesNotAliasCaller(t *testing.T) {
	src := seq(3)
	p := New(src, 5)
	p.Remove(func(v int) bool { return v == 1 })
	assert.Equal(t, []int{1, 2, 3}, src)
	assert.Equal(t, []int{2, 3}, p.Page())
}

func TestPagerReset(t *testing.T) {
	p := New(seq(12), 5)
	p.Goto(3)
	p.Reset(seq(2))
	assert.Equal(t, 1, p.Current())
	assert.Equal(t, 2, p.Len())
}
