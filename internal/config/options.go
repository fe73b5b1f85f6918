package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ayn2op/tpick/kinetic"
)

// ErrNoOptions is returned when the input holds no options.
var ErrNoOptions = errors.New("no options")

// ParseOptions reads one option per line. A line is either "value" or
// "value<TAB>label". Lines starting with disabledPrefix are disabled options;
// an empty prefix disables nothing. Blank lines are skipped.
func ParseOptions(r io.Reader, disabledPrefix string) ([]kinetic.Item, error) {
	var items []kinetic.Item

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		var item kinetic.Item
		if disabledPrefix != "" && strings.HasPrefix(text, disabledPrefix) {
			item.Disabled = true
			text = strings.TrimPrefix(text, disabledPrefix)
		}

		value, label, _ := strings.Cut(text, "\t")
		item.Value = strings.TrimSpace(value)
		item.Label = strings.TrimSpace(label)
		if item.Value == "" {
			return nil, fmt.Errorf("line %d: empty value", line)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}

	if len(items) == 0 {
		return nil, ErrNoOptions
	}
	return items, nil
}
