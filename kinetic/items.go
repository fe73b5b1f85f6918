package kinetic

import "fmt"

// Item is a single option of the wheel.
type Item struct {
	Value    string
	Label    string
	Disabled bool
}

// Text returns the label, or the value when there is no label.
func (i Item) Text() string {
	if i.Label != "" {
		return i.Label
	}
	return i.Value
}

// Trigger identifies the input source behind a pick or change.
type Trigger int

const (
	TriggerClick Trigger = iota
	TriggerWheel
	TriggerTouch
	TriggerKeyboard
	TriggerScroll
)

func (t Trigger) String() string {
	switch t {
	case TriggerClick:
		return "click"
	case TriggerWheel:
		return "wheel"
	case TriggerTouch:
		return "touch"
	case TriggerKeyboard:
		return "keyboard"
	case TriggerScroll:
		return "scroll"
	}
	return fmt.Sprintf("Trigger(%d)", int(t))
}

// IndexOfValue returns the index of the first item with the given value, or
// -1.
func IndexOfValue(items []Item, value string) int {
	for i, item := range items {
		if item.Value == value {
			return i
		}
	}
	return -1
}

func enabled(items []Item, i int) bool {
	return i >= 0 && i < len(items) && !items[i].Disabled
}

// FirstEnabledFrom searches outward from i, trying i-r before i+r, for the
// nearest enabled item. It returns i when every item is disabled.
func FirstEnabledFrom(items []Item, i int) int {
	n := len(items)
	for r := 0; r <= n; r++ {
		if enabled(items, i-r) {
			return i - r
		}
		if enabled(items, i+r) {
			return i + r
		}
	}
	return i
}

// NextEnabled returns the first enabled index at or after i in direction
// dir (+1 or -1). When the end of the list is reached it falls back to
// FirstEnabledFrom.
func NextEnabled(items []Item, i, dir int) int {
	if dir == 0 {
		return FirstEnabledFrom(items, i)
	}
	for j := i; j >= 0 && j < len(items); j += dir {
		if !items[j].Disabled {
			return j
		}
	}
	return FirstEnabledFrom(items, i)
}
