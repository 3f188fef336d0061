package search

// Explanation is an append-only trace of the decisions made for one query.
type Explanation struct {
	lines []string
}

// NewExplanation creates an empty Explanation.
func NewExplanation() *Explanation {
	return &Explanation{lines: []string{}}
}

// Add appends a line.
func (e *Explanation) Add(line string) {
	e.lines = append(e.lines, line)
}

// Lines returns a copy of the trace.
func (e *Explanation) Lines() []string {
	lines := make([]string, len(e.lines))
	copy(lines, e.lines)
	return lines
}

// Len returns the number of lines.
func (e *Explanation) Len() int { return len(e.lines) }
