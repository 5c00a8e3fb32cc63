package source

import "fmt"

// Position locates a character in decoded content.
// Positions only ever grow while a source is being consumed.
type Position struct {
	Line   uint32 // 1-based
	Column uint32 // 1-based, resets on '\n'
	Offset uint32 // byte offset, 0-based
}

// StartPosition is the position of the first character of any input.
func StartPosition() Position {
	return Position{Line: 1, Column: 1, Offset: 0}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// advance returns the position following a character r of the given byte width.
func (p Position) advance(r rune, size uint32) Position {
	p.Offset += size
	if r == '\n' {
		p.Line++
		p.Column = 1
	} else {
		p.Column++
	}
	return p
}
