package kinetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withDisabled(n int, disabled ...int) []Item {
	items := testItems(n)
	for _, i := range disabled {
		items[i].Disabled = true
	}
	return items
}

func TestFirstEnabledFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		items    []Item
		from     int
		expected int
	}{
		{"enabled", withDisabled(5), 2, 2},
		{"prefers lower", withDisabled(5, 2), 2, 1},
		{"walks outward", withDisabled(6, 1, 2, 3), 2, 0},
		{"walks up", withDisabled(6, 0, 1, 2, 3), 2, 4},
		{"edge", withDisabled(4, 0), 0, 1},
		{"all disabled", withDisabled(3, 0, 1, 2), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FirstEnabledFrom(tt.items, tt.from))
		})
	}
}

func TestNextEnabled(t *testing.T) {
	t.Parallel()

	items := withDisabled(6, 1, 2)
	assert.Equal(t, 3, NextEnabled(items, 1, 1))
	assert.Equal(t, 0, NextEnabled(items, 2, -1))
	assert.Equal(t, 3, NextEnabled(items, 3, -1))

	// Nothing enabled ahead: fall back to the nearest one.
	items = withDisabled(4, 3)
	assert.Equal(t, 2, NextEnabled(items, 3, 1))
}

func TestItemText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Apple", Item{Value: "a", Label: "Apple"}.Text())
	assert.Equal(t, "a", Item{Value: "a"}.Text())
	assert.Equal(t, 1, IndexOfValue([]Item{{Value: "a"}, {Value: "b"}}, "b"))
	assert.Equal(t, -1, IndexOfValue(nil, "b"))
	assert.Equal(t, "keyboard", TriggerKeyboard.String())
}
