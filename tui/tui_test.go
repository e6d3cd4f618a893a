package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/escapecore/engine"
	"github.com/nathoo/escapecore/engine/command"
	"github.com/nathoo/escapecore/engine/object"
	"github.com/nathoo/escapecore/engine/state"
	"github.com/nathoo/escapecore/types"
)

func TestRoomDisplayName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"cell", "Cell"},
		{"control_room", "Control Room"},
		{"back-yard", "Back Yard"},
		{"room2", "Room2"},
	}
	for _, tt := range tests {
		got := roomDisplayName(tt.id)
		if got != tt.want {
			t.Errorf("roomDisplayName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestInventoryLabel(t *testing.T) {
	got := inventoryLabel([]string{"knife", "old_map", "coin"}, "old_map")
	if got != "knife, *old map, coin" {
		t.Errorf("inventoryLabel = %q", got)
	}
	if got := inventoryLabel([]string{"knife"}, ""); got != "knife" {
		t.Errorf("inventoryLabel without held item = %q", got)
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"You see: knife, safe.", kindYouSee},
		{"[Code entry cancelled.]", kindSystem},
		{"[trace] Events: 2", kindTrace},
		{`You don't see "lamp" here.`, kindError},
		{"I don't understand that.", kindError},
		{"The gate is locked.", kindError},
		{"Wrong code.", kindError},
		{"Nothing happens.", kindError},
		{"The safe unlocks.", kindUnlock},
		{"A key appears.", kindUnlock},
		{"You are in the cell.", kindRoomDesc},
		{"", kindRoomDesc},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"The cell is cold and smells of rust and old paper.", 20,
			"The cell is cold and\nsmells of rust and\nold paper."},
		{"", 80, ""},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("open safe")
	h.Push("take key")

	for _, want := range []string{"take key", "open safe", "look", "look"} {
		prev, ok := h.Prev()
		if !ok || prev != want {
			t.Errorf("expected %q, got %q (ok=%v)", want, prev, ok)
		}
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("open safe")

	h.Prev() // "open safe"
	h.Prev() // "look"

	next, ok := h.Next()
	if !ok || next != "open safe" {
		t.Errorf("expected 'open safe', got %q (ok=%v)", next, ok)
	}

	if _, ok = h.Next(); ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_RingOverwritesOldest(t *testing.T) {
	h := NewHistory(3)
	for _, cmd := range []string{"a", "b", "c", "d", "e"} {
		h.Push(cmd)
	}
	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}
	for _, want := range []string{"e", "d", "c", "c"} {
		if prev, _ := h.Prev(); prev != want {
			t.Errorf("expected %q, got %q", want, prev)
		}
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("look")
	h.Push("look")

	if h.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", h.Len())
	}
}

func TestHistory_ZeroSize(t *testing.T) {
	h := NewHistory(0)
	h.Push("look")
	h.Push("code 12")
	if prev, ok := h.Prev(); !ok || prev != "code 12" {
		t.Errorf("expected latest entry kept, got %q", prev)
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("open safe")

	h.Prev()
	h.ResetCursor()

	prev, ok := h.Prev()
	if !ok || prev != "open safe" {
		t.Errorf("expected 'open safe' after reset, got %q", prev)
	}
}

func TestLayoutRoom_LabelsAtPositions(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)
	s.Rooms["cell"] = types.Room{
		"knife": {X: 0, Y: 0},
		"gate":  {X: 1, Y: 1},
	}

	lines := layoutRoom(s, "cell", 20, 5).Lines()
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "knife") {
		t.Errorf("expected knife at top-left, got %q", lines[0])
	}
	if !strings.HasSuffix(lines[4], "gate") {
		t.Errorf("expected gate at bottom-right, got %q", lines[4])
	}
}

func TestLayoutRoom_Footprint(t *testing.T) {
	defs := &state.Defs{
		Game:    types.GameDef{Start: "hall"},
		Objects: map[string]object.Object{"wall": object.NewMoveToRoom("wall", "hall", 0.5, 0.6)},
		Rooms:   map[string]types.Room{"hall": {"wall": {X: 0.5, Y: 0.5}}},
	}
	s := state.NewState(defs)

	lines := layoutRoom(s, "hall", 20, 5).Lines()
	want := []string{
		"····················",
		"·····▒▒▒▒▒▒▒▒▒▒·····",
		"·····▒▒▒wall▒▒▒·····",
		"·····▒▒▒▒▒▒▒▒▒▒·····",
		"····················",
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestLayoutRoom_Empty(t *testing.T) {
	s := state.NewState(testDefs())
	if got := layoutRoom(s, "cell", 0, 5).Lines(); len(got) != 0 {
		t.Errorf("expected no rows for zero width, got %v", got)
	}
	if got := renderRoomMap(s, 5, 3); got != "" {
		t.Errorf("expected no panel when too small, got %q", got)
	}
}

// testDefs returns a one-room escape for TUI testing.
func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:   "Test Escape",
			Author:  "Test",
			Version: "1.0",
			Start:   "cell",
			Intro:   "Welcome to the test.",
			WinRoom: "street",
		},
		Objects: map[string]object.Object{
			"knife": object.NewPickableObject("knife", 0.1, 0.1),
			"note":  object.NewInspectableObject("note", 0.1, 0.1),
			"safe": object.NewSelfAskCodeLock("safe",
				command.Reveal("key", "cell", types.Position{X: 0.5, Y: 0.9}), "7", 0.2, 0.2),
			"key":  object.NewPickableObject("key", 0.05, 0.05),
			"gate": object.NewSelfKeyLock("gate", "key", command.MoveToRoom("street"), 0.3, 0.8),
		},
		Rooms: map[string]types.Room{
			"cell": {
				"knife": {X: 0.2, Y: 0.8},
				"note":  {X: 0.1, Y: 0.1},
				"safe":  {X: 0.5, Y: 0.5},
				"gate":  {X: 0.9, Y: 0.5},
			},
			"street": {},
		},
		Messages: map[string]string{
			"Inspected(note)": "Someone scrawled a single digit: 7.",
		},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	defs := testDefs()
	m := New(engine.New(defs), defs, Options{ShowMap: true, HistorySize: 10})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func submit(t *testing.T, m Model, line string) Model {
	t.Helper()
	m.input.SetValue(line)
	next, _ := m.handleEnter()
	return next.(Model)
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func narrative(m Model) string {
	var lines []string
	for _, rl := range m.rawLines {
		lines = append(lines, rl.text)
	}
	return strings.Join(lines, "\n")
}

func TestModel_CodeEntry(t *testing.T) {
	m := newTestModel(t)

	m = submit(t, m, "open safe")
	if m.mode != modeCode {
		t.Fatalf("expected code mode, got %v", m.mode)
	}
	if m.input.Prompt != "code> " {
		t.Errorf("expected code prompt, got %q", m.input.Prompt)
	}
	if !strings.Contains(m.renderStatusBar(), "CODE: safe") {
		t.Error("expected code mode in status bar")
	}

	m = submit(t, m, "7")
	if m.mode != modeNormal {
		t.Errorf("expected normal mode after the code, got %v", m.mode)
	}
	if !strings.Contains(narrative(m), "A key appears.") {
		t.Errorf("expected reveal, got:\n%s", narrative(m))
	}
	if !m.engine.State().IsPlaced("cell", "key") {
		t.Error("expected key placed")
	}
}

func TestModel_CodeEntryCancel(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "open safe")

	m, _ = press(t, m, tea.KeyEsc)
	if m.mode != modeNormal {
		t.Errorf("expected normal mode after Esc, got %v", m.mode)
	}
	if !strings.Contains(narrative(m), "Code entry cancelled.") {
		t.Error("expected cancel notice")
	}
	if m.engine.State().TurnCount != 1 {
		t.Errorf("expected no turn spent on cancel, got %d", m.engine.State().TurnCount)
	}
}

func TestModel_InspectOverlay(t *testing.T) {
	m := newTestModel(t)

	m = submit(t, m, "look note")
	if m.mode != modeInspect {
		t.Fatalf("expected inspect mode, got %v", m.mode)
	}
	if m.inspectText != "Someone scrawled a single digit: 7." {
		t.Errorf("inspectText = %q", m.inspectText)
	}
	if !strings.Contains(m.View(), "Press Enter to close.") {
		t.Error("expected overlay in view")
	}

	m, _ = press(t, m, tea.KeyEnter)
	if m.mode != modeNormal || m.inspectText != "" {
		t.Errorf("expected overlay closed, mode=%v text=%q", m.mode, m.inspectText)
	}
}

func TestModel_Escape(t *testing.T) {
	m := newTestModel(t)
	for _, line := range []string{"open safe", "7", "take key", "use key on gate"} {
		m = submit(t, m, line)
	}

	if m.mode != modeOver {
		t.Fatalf("expected game over mode, got %v", m.mode)
	}
	if !strings.Contains(narrative(m), "You escaped in 5 turns.") {
		t.Errorf("expected escape notice, got:\n%s", narrative(m))
	}

	m, cmd := press(t, m, tea.KeyEnter)
	if !m.quitting || cmd == nil {
		t.Error("expected Enter to quit after escaping")
	}
}

func TestModel_QuitVerb(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("quit")
	next, cmd := m.handleEnter()
	if !next.(Model).quitting || cmd == nil {
		t.Error("expected quit verb to end the program")
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "look")
	m = submit(t, m, "inventory")

	m, _ = press(t, m, tea.KeyUp)
	if m.input.Value() != "inventory" {
		t.Errorf("expected last command, got %q", m.input.Value())
	}
	m, _ = press(t, m, tea.KeyDown)
	if m.input.Value() != "" {
		t.Errorf("expected fresh input, got %q", m.input.Value())
	}
}

func TestModel_Again(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "g")
	if !strings.Contains(narrative(m), "Nothing to repeat.") {
		t.Error("expected nothing-to-repeat message")
	}

	m = submit(t, m, "take knife")
	m = submit(t, m, "again")
	if !strings.Contains(narrative(m), "You hold the knife.") {
		t.Errorf("expected repeated command, got:\n%s", narrative(m))
	}
}

func TestModel_ViewShowsMapAndStatus(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	if !strings.Contains(view, "T:0") {
		t.Error("expected turn count in status bar")
	}
	if !strings.Contains(view, "gate") {
		t.Error("expected object labels in view")
	}

	m.handleMeta("/map")
	if m.mapWidth() != 0 {
		t.Error("expected map hidden after /map")
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := newTestModel(t)

	if _, quit := m.handleMeta("/quit"); !quit {
		t.Error("expected quit=true for /quit")
	}
	if _, quit := m.handleMeta("/exit"); !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("help should not quit")
	}

	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/quit", "/map", "/cancel", "look", "inventory", "code <thing> <code>"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/trace")
	if !m.trace {
		t.Error("expected trace to be enabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected enabled message, got %v", output)
	}

	m = submit(t, m, "take knife")
	if !strings.Contains(narrative(m), "[trace]   PickedUp(knife)") {
		t.Errorf("expected event trace, got:\n%s", narrative(m))
	}

	output, _ = m.handleMeta("/trace")
	if m.trace {
		t.Error("expected trace to be disabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected disabled message, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_State(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "open safe")

	output, _ := m.handleMeta("/state")
	joined := strings.Join(output, "\n")
	for _, expected := range []string{"Turn: 1", "Room: cell", "Awaiting code: safe"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in state output, got:\n%s", expected, joined)
		}
	}
}
