package vals

import (
	"strings"

	"src.rho.sh/pkg/wcwidth"
)

// A block is a rectangle of text. All lines of a block are padded to the same
// width when the block is placed in a grid.
type block []string

func (b block) width() int {
	w := 0
	for _, line := range b {
		if lw := wcwidth.Of(line); lw > w {
			w = lw
		}
	}
	return w
}

func prettyLines(v Value) ([]string, error) {
	b, err := prettyBlock(v)
	return []string(b), err
}

func prettyBlock(v Value) (block, error) {
	if !IsArray(v) {
		s, err := formatScalar(v, Pretty)
		return block{s}, err
	}
	if s, ok, err := charsOf(v); err != nil {
		return nil, err
	} else if ok {
		return block{s}, nil
	}
	d := v.Dims()
	switch {
	case d.Rank() == 0:
		e, err := v.ValueAt(0)
		if err != nil {
			return nil, err
		}
		inner, err := prettyBlock(e)
		if err != nil {
			return nil, err
		}
		return box(inner, false, false), nil
	case d.ContentSize() == 0:
		if d.Rank() == 1 {
			return block{"⍬"}, nil
		}
		var sb strings.Builder
		writeShape(&sb, d.Ints())
		return block{sb.String() + "⍴⍬"}, nil
	}

	cells := make([]block, d.ContentSize())
	nested := false
	for i := range cells {
		e, err := v.ValueAt(i)
		if err != nil {
			return nil, err
		}
		if IsArray(e) {
			nested = true
		}
		if cells[i], err = prettyElement(e); err != nil {
			return nil, err
		}
	}

	cols := d.Last()
	rows := len(cells) / cols
	// Higher axes are laid out as consecutive planes separated by empty
	// lines.
	plane := 1
	if d.Rank() > 1 {
		plane = d.At(d.Rank() - 2)
	}
	widths := make([]int, cols)
	for i, c := range cells {
		if w := c.width(); w > widths[i%cols] {
			widths[i%cols] = w
		}
	}
	var out block
	for r := 0; r < rows; r++ {
		if r > 0 && r%plane == 0 {
			out = append(out, "")
		}
		height := 1
		for c := 0; c < cols; c++ {
			if h := len(cells[r*cols+c]); h > height {
				height = h
			}
		}
		for line := 0; line < height; line++ {
			var sb strings.Builder
			for c := 0; c < cols; c++ {
				if c > 0 {
					sb.WriteByte(' ')
				}
				cell := cells[r*cols+c]
				text := ""
				if line < len(cell) {
					text = cell[line]
				}
				if len(cell) == 1 && isNumeric(cell[0]) {
					sb.WriteString(wcwidth.PadLeft(text, widths[c]))
				} else {
					sb.WriteString(wcwidth.Force(text, widths[c]))
				}
			}
			out = append(out, strings.TrimRight(sb.String(), " "))
		}
	}
	if !nested {
		return out, nil
	}
	return box(out, true, d.Rank() > 1), nil
}

// prettyElement renders an element of an array. Nested arrays other than
// strings are always framed.
func prettyElement(e Value) (block, error) {
	b, err := prettyBlock(e)
	if err != nil || !IsArray(e) || Rank(e) == 0 || Size(e) == 0 {
		return b, err
	}
	if _, ok, _ := charsOf(e); ok || strings.HasPrefix(b[0], "┌") {
		return b, nil
	}
	return box(b, true, Rank(e) > 1), nil
}

func isNumeric(s string) bool {
	return s != "" && strings.Trim(s, "0123456789.¯EJe+-") == ""
}

// box draws a frame around a block. The top edge carries an arrow for a
// horizontal axis, and the left edge one for a vertical axis.
func box(b block, horizontal, vertical bool) block {
	w := b.width()
	top := "┌" + strings.Repeat("─", w) + "┐"
	if horizontal && w > 0 {
		top = "┌→" + strings.Repeat("─", w-1) + "┐"
	}
	out := block{top}
	for i, line := range b {
		left := "│"
		if vertical && i == 0 {
			left = "↓"
		}
		out = append(out, left+wcwidth.Force(line, w)+"│")
	}
	return append(out, "└"+strings.Repeat("─", w)+"┘")
}
