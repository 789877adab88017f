package ui

import (
	"bufio"
	"os"
	"strings"
)

// maxHistory bounds the entries kept from the history file.
const maxHistory = 500

// History manages command navigation (prev/next) with an internal cursor.
type History struct {
	entries []string
	index   int
}

// LoadHistoryFromFile reads the slash commands of a readline history file,
// keeping the most recent maxHistory.
func LoadHistoryFromFile(path string) []string {
	history := make([]string, 0)

	file, err := os.Open(path)
	if err != nil {
		return history
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "/") {
			continue
		}
		if n := len(history); n > 0 && history[n-1] == line {
			continue
		}
		history = append(history, line)
	}

	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	return history
}

// NewHistory initializes a History with existing entries.
func NewHistory(entries []string) *History {
	return &History{
		entries: entries,
		index:   -1,
	}
}

// Add appends an entry, skipping repeats of the last one, and resets
// navigation.
func (h *History) Add(entry string) {
	h.index = -1
	if entry == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return
	}
	h.entries = append(h.entries, entry)
}

// Prev moves backward through history. Returns entry and true if available.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.index == -1 {
		h.index = len(h.entries) - 1
	} else if h.index > 0 {
		h.index--
	}
	return h.entries[h.index], true
}

// Next moves forward through history. Returns entry (or empty when cleared) and true if movement occurred.
func (h *History) Next() (string, bool) {
	if len(h.entries) == 0 || h.index == -1 {
		return "", false
	}
	if h.index < len(h.entries)-1 {
		h.index++
		return h.entries[h.index], true
	}
	h.index = -1
	return "", true
}

// Entries returns a copy of history entries.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
