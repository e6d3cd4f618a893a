package tui

// History is a fixed-size ring of submitted commands with cursor-based
// navigation. Once full, each push overwrites the oldest entry.
type History struct {
	ring   []string
	start  int // index of the oldest entry
	count  int
	cursor int // -1 = not navigating, 0..count-1 = age order, 0 oldest
}

// NewHistory creates a history ring holding at most size commands.
// Sizes below one are raised to one.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{
		ring:   make([]string, size),
		cursor: -1,
	}
}

// Len reports how many commands are stored.
func (h *History) Len() int { return h.count }

// at returns the i-th oldest entry.
func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Push adds a command. Consecutive duplicates are skipped.
func (h *History) Push(cmd string) {
	if h.count > 0 && h.at(h.count-1) == cmd {
		return
	}
	if h.count < len(h.ring) {
		h.ring[(h.start+h.count)%len(h.ring)] = cmd
		h.count++
		return
	}
	h.ring[h.start] = cmd
	h.start = (h.start + 1) % len(h.ring)
}

// Prev returns the previous (older) entry, stopping at the oldest.
// Returns ("", false) if history is empty.
func (h *History) Prev() (string, bool) {
	if h.count == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = h.count - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next returns the next (newer) entry. Returns ("", false) when moving
// past the newest entry, which ends navigation.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.count {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
}
