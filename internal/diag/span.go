package diag

import "fmt"

// Pos is a position in a source file, carried by surface and typed nodes
// purely for diagnostics; the typing core never inspects it.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open source range.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return s.Start.String()
}

// Note is one (description, span) call-out attached to an Error.
type Note struct {
	Description string
	Span        Span
}
