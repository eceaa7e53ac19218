package types

import (
	"strings"
	"unicode/utf8"

	lsp "go.lsp.dev/protocol"
)

// maxLeafLength is the size above which an insertion splits a leaf.
const maxLeafLength = 1024

// Rope represents a text data structure. Leaves hold text, inner nodes hold
// the combined length of their children.
type Rope struct {
	left   *Rope
	right  *Rope
	text   string
	length int
}

// NewRope creates a new rope with the given text.
func NewRope(text string) *Rope {
	return &Rope{text: text, length: len(text)}
}

func (r *Rope) isLeaf() bool {
	return r.left == nil
}

// Len returns the length of the text in bytes.
func (r *Rope) Len() int {
	return r.length
}

// Insert inserts text at the specified position in the rope.
func (r *Rope) Insert(position int, text string) {
	if position < 0 || position > r.length {
		panic("Invalid position")
	}

	if len(text) == 0 {
		return
	}

	r.length += len(text)

	if !r.isLeaf() {
		if position <= r.left.length {
			r.left.Insert(position, text)
		} else {
			r.right.Insert(position-r.left.length, text)
		}
		return
	}

	if len(r.text)+len(text) <= maxLeafLength {
		r.text = r.text[:position] + text + r.text[position:]
		return
	}

	r.left = NewRope(r.text[:position] + text)
	r.right = NewRope(r.text[position:])
	r.text = ""
}

// Delete deletes text from the specified position in the rope.
func (r *Rope) Delete(position, length int) {
	if position < 0 || position >= r.length || length <= 0 || position+length > r.length {
		panic("Invalid position or length")
	}

	r.length -= length

	if r.isLeaf() {
		r.text = r.text[:position] + r.text[position+length:]
		return
	}

	leftLength := r.left.length
	if position >= leftLength {
		r.right.Delete(position-leftLength, length)
		return
	}

	fromLeft := min(length, leftLength-position)
	r.left.Delete(position, fromLeft)
	if length > fromLeft {
		r.right.Delete(0, length-fromLeft)
	}
}

func (r *Rope) writeTo(sb *strings.Builder) {
	if r.isLeaf() {
		sb.WriteString(r.text)
		return
	}
	r.left.writeTo(sb)
	r.right.writeTo(sb)
}

// ToString returns the string representation of the rope.
func (r *Rope) ToString() string {
	if r.isLeaf() {
		return r.text
	}

	var sb strings.Builder
	sb.Grow(r.length)
	r.writeTo(&sb)
	return sb.String()
}

// OffsetFromPosition converts an LSP position, whose character is counted
// in UTF-16 code units, to a byte offset. Lines past the end resolve to the
// last line and characters past the end of a line resolve to its end.
func (r *Rope) OffsetFromPosition(position lsp.Position) int {
	text := r.ToString()

	lineStart := 0
	for line := uint32(0); line < position.Line; line++ {
		next := strings.IndexByte(text[lineStart:], '\n')
		if next < 0 {
			break
		}
		lineStart += next + 1
	}

	offset := lineStart
	units := uint32(0)
	for offset < len(text) && units < position.Character {
		ch, size := utf8.DecodeRuneInString(text[offset:])
		if ch == '\n' || (ch == '\r' && strings.HasPrefix(text[offset:], "\r\n")) {
			break
		}
		units += utf16Length(ch)
		offset += size
	}
	return offset
}

// PositionFromOffset converts a byte offset to an LSP position.
func (r *Rope) PositionFromOffset(offset int) lsp.Position {
	text := r.ToString()
	offset = max(0, min(offset, len(text)))

	position := lsp.Position{}
	for i := 0; i < offset; {
		ch, size := utf8.DecodeRuneInString(text[i:])
		// a rune cut by offset is not counted
		if i+size > offset {
			break
		}

		if ch == '\n' {
			position.Line++
			position.Character = 0
		} else {
			position.Character += utf16Length(ch)
		}
		i += size
	}
	return position
}

func utf16Length(ch rune) uint32 {
	if ch >= 0x10000 {
		return 2
	}
	return 1
}
