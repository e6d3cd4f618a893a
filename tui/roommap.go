package tui

import (
	"math"
	"strings"

	"github.com/nathoo/escapecore/engine"
	"github.com/nathoo/escapecore/engine/object"
	"github.com/nathoo/escapecore/engine/state"
)

// Map cell glyphs.
const (
	glyphFloor     = '·'
	glyphFootprint = '▒'
)

type cellKind int

const (
	cellFloor cellKind = iota
	cellFootprint
	cellLabel
)

// roomGrid is the unstyled layout of a room map: one rune and one kind per
// cell, rows top to bottom.
type roomGrid struct {
	cells [][]rune
	kinds [][]cellKind
}

// Lines returns the grid as plain text rows.
func (g roomGrid) Lines() []string {
	lines := make([]string, len(g.cells))
	for i, row := range g.cells {
		lines[i] = string(row)
	}
	return lines
}

// layoutRoom places every visible object of a room on a cols x rows grid.
// Positions are normalized, so (0,0) is the top-left cell and (1,1) the
// bottom-right. Each object's footprint is scaled from its Size and its
// label is centered on its position. Objects are drawn in id order, so a
// later label overwrites an earlier one where they collide.
func layoutRoom(s *state.State, roomID string, cols, rows int) roomGrid {
	if cols <= 0 || rows <= 0 {
		return roomGrid{}
	}
	g := roomGrid{
		cells: make([][]rune, rows),
		kinds: make([][]cellKind, rows),
	}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(string(glyphFloor), cols))
		g.kinds[y] = make([]cellKind, cols)
	}

	room := s.Rooms[roomID]
	ids := s.ObjectsInRoom(roomID)

	// Footprints first so no label is hidden under a later footprint.
	for _, id := range ids {
		obj, ok := s.Object(id)
		if !ok {
			continue
		}
		p, ok := obj.(object.Placeable)
		if !ok {
			continue
		}
		w, h := p.Size()
		cx, cy := cellOf(room[id].X, cols), cellOf(room[id].Y, rows)
		fw := max(1, int(math.Round(w*float64(cols))))
		fh := max(1, int(math.Round(h*float64(rows))))
		x0, y0 := clampSpan(cx-fw/2, fw, cols), clampSpan(cy-fh/2, fh, rows)
		for y := y0; y < min(rows, y0+fh); y++ {
			for x := x0; x < min(cols, x0+fw); x++ {
				g.cells[y][x] = glyphFootprint
				g.kinds[y][x] = cellFootprint
			}
		}
	}

	for _, id := range ids {
		label := []rune(engine.DisplayName(id))
		if len(label) > cols {
			label = label[:cols]
		}
		cx, cy := cellOf(room[id].X, cols), cellOf(room[id].Y, rows)
		x0 := clampSpan(cx-len(label)/2, len(label), cols)
		for i, r := range label {
			g.cells[cy][x0+i] = r
			g.kinds[cy][x0+i] = cellLabel
		}
	}
	return g
}

// cellOf maps a normalized coordinate onto [0, n).
func cellOf(v float64, n int) int {
	c := int(math.Round(v * float64(n-1)))
	return min(max(c, 0), n-1)
}

// clampSpan shifts the start of a span of length l so it fits in [0, n).
func clampSpan(start, l, n int) int {
	if start+l > n {
		start = n - l
	}
	return max(start, 0)
}

// renderRoomMap draws the current room as a bordered panel of the given
// outer size, with the room name above it. It returns "" when the panel
// is too small to be useful.
func renderRoomMap(s *state.State, width, height int) string {
	cols, rows := width-2, height-3 // border + title line
	if cols < 8 || rows < 3 {
		return ""
	}

	roomID := s.CurrentRoom()
	g := layoutRoom(s, roomID, cols, rows)

	lines := make([]string, rows)
	for y := range g.cells {
		lines[y] = renderRow(g.cells[y], g.kinds[y])
	}

	title := styleMapTitle.Render(truncate(engine.DisplayName(roomID), width))
	return title + "\n" + styleMapBorder.Render(strings.Join(lines, "\n"))
}

// renderRow styles a row run by run.
func renderRow(cells []rune, kinds []cellKind) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(cells); i++ {
		if i < len(cells) && kinds[i] == kinds[start] {
			continue
		}
		run := string(cells[start:i])
		switch kinds[start] {
		case cellLabel:
			b.WriteString(styleMapLabel.Render(run))
		case cellFootprint:
			b.WriteString(styleTrace.Render(run))
		default:
			b.WriteString(styleMapFloor.Render(run))
		}
		start = i
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
