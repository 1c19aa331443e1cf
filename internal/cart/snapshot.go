package cart

// Snapshot is an immutable, ordered set of lines. Mutations produce a new
// *Snapshot; a no-op hands back the same pointer, so callers can compare
// pointers to decide whether anything changed.
type Snapshot struct {
	lines []Line
}

var emptySnapshot = &Snapshot{}

// Empty returns the shared empty snapshot.
func Empty() *Snapshot {
	return emptySnapshot
}

// NewSnapshot builds a snapshot from lines, keeping the first line for any
// repeated ID. The input slice is copied.
func NewSnapshot(lines []Line) *Snapshot {
	if len(lines) == 0 {
		return emptySnapshot
	}
	seen := make(map[string]struct{}, len(lines))
	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ID]; dup {
			continue
		}
		seen[line.ID] = struct{}{}
		out = append(out, line)
	}
	return &Snapshot{lines: out}
}

// Lines returns a copy of the lines in cart order.
func (s *Snapshot) Lines() []Line {
	if s == nil || len(s.lines) == 0 {
		return []Line{}
	}
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.lines)
}

// Line looks up a line by ID.
func (s *Snapshot) Line(id string) (Line, bool) {
	idx := s.index(id)
	if idx < 0 {
		return Line{}, false
	}
	return s.lines[idx], true
}

func (s *Snapshot) index(id string) int {
	if s == nil {
		return -1
	}
	for i := range s.lines {
		if s.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// withLine returns a copy of s where position idx holds line.
func (s *Snapshot) withLine(idx int, line Line) *Snapshot {
	next := make([]Line, len(s.lines))
	copy(next, s.lines)
	next[idx] = line
	return &Snapshot{lines: next}
}

func (s *Snapshot) prepend(line Line) *Snapshot {
	next := make([]Line, 0, s.Len()+1)
	next = append(next, line)
	if s != nil {
		next = append(next, s.lines...)
	}
	return &Snapshot{lines: next}
}

func (s *Snapshot) without(idx int) *Snapshot {
	if len(s.lines) == 1 {
		return emptySnapshot
	}
	next := make([]Line, 0, len(s.lines)-1)
	next = append(next, s.lines[:idx]...)
	next = append(next, s.lines[idx+1:]...)
	return &Snapshot{lines: next}
}
