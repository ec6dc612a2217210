package vals

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/sym"
)

// Style selects how values are formatted.
type Style uint8

const (
	// Plain is the style used by print: strings are written raw and numbers
	// use an ASCII minus sign.
	Plain Style = iota
	// Readable produces text that reads back as an equal value.
	Readable
	// Pretty draws nested arrays in boxes.
	Pretty
)

func (s Style) String() string {
	switch s {
	case Plain:
		return "plain"
	case Readable:
		return "readable"
	case Pretty:
		return "pretty"
	}
	return "unknown"
}

// Formatter may be implemented by scalar values defined outside this package,
// such as functions and internal values.
type Formatter interface {
	FormatValue(s Style) (string, error)
}

// Format formats a value in the given style.
func Format(v Value, s Style) (string, error) {
	switch s {
	case Readable:
		var sb strings.Builder
		if err := writeReadable(&sb, v, false); err != nil {
			return "", err
		}
		return sb.String(), nil
	case Pretty:
		lines, err := prettyLines(v)
		if err != nil {
			return "", err
		}
		return strings.Join(lines, "\n"), nil
	default:
		return formatPlain(v)
	}
}

// mustFormat formats a value for use in error messages, falling back to the
// kind name.
func (s Style) mustFormat(v Value) string {
	str, err := Format(v, s)
	if err != nil {
		return "<" + v.Kind().String() + ">"
	}
	return str
}

// ErrNotReadable is returned when a value has no readable form.
var ErrNotReadable = errors.New("value has no readable form")

func itoa(i int) string { return strconv.Itoa(i) }

func formatPlain(v Value) (string, error) {
	if !IsArray(v) {
		return formatScalar(v, Plain)
	}
	if s, ok := v.(*String); ok {
		return s.String(), nil
	}
	switch Rank(v) {
	case 0:
		e, err := v.ValueAt(0)
		if err != nil {
			return "", err
		}
		return formatPlain(e)
	case 1:
		if s, ok, err := charsOf(v); err != nil || ok {
			return s, err
		}
		return joinPlain(v, 0, Size(v))
	}
	// Rows along the last axis, one per line.
	rowLen := v.Dims().Last()
	n := Size(v)
	var rows []string
	for start := 0; start < n; start += rowLen {
		row, err := joinPlain(v, start, start+rowLen)
		if err != nil {
			return "", err
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n"), nil
}

func joinPlain(v Value, from, to int) (string, error) {
	var sb strings.Builder
	for i := from; i < to; i++ {
		e, err := v.ValueAt(i)
		if err != nil {
			return "", err
		}
		s, err := formatPlain(e)
		if err != nil {
			return "", err
		}
		if i > from {
			sb.WriteByte(' ')
		}
		if IsArray(e) {
			s = "(" + s + ")"
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// charsOf returns the content of v as a string if v is a non-empty rank-1
// array of characters.
func charsOf(v Value) (string, bool, error) {
	if s, ok := v.(*String); ok {
		return s.String(), len(s.runes) > 0, nil
	}
	if Rank(v) != 1 || Size(v) == 0 {
		return "", false, nil
	}
	n := Size(v)
	runes := make([]rune, n)
	for i := 0; i < n; i++ {
		e, err := v.ValueAt(i)
		if err != nil {
			return "", false, err
		}
		c, ok := e.(Char)
		if !ok {
			return "", false, nil
		}
		runes[i] = rune(c)
	}
	return string(runes), true, nil
}

func formatScalar(v Value, s Style) (string, error) {
	switch v := v.(type) {
	case Int:
		return formatInt(int64(v), s), nil
	case Float:
		return formatFloat(float64(v), s)
	case Complex:
		re, err := formatFloat(real(v), s)
		if err != nil {
			return "", err
		}
		im, err := formatFloat(imag(v), s)
		if err != nil {
			return "", err
		}
		return re + "J" + im, nil
	case Char:
		if s == Readable {
			return "@" + string(rune(v)), nil
		}
		return string(rune(v)), nil
	case Sym:
		if s == Readable {
			if v.Namespace().Name() == sym.KeywordNamespace {
				return ":" + v.Name(), nil
			}
			return "'" + v.String(), nil
		}
		return v.Name(), nil
	case NilValue:
		if s == Readable {
			return "", ErrNotReadable
		}
		return "null", nil
	case *List:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			var str string
			var err error
			if s == Readable {
				var sb strings.Builder
				err = writeReadable(&sb, e, false)
				str = sb.String()
			} else {
				str, err = Format(e, s)
			}
			if err != nil {
				return "", err
			}
			parts[i] = str
		}
		return "(" + strings.Join(parts, ";") + ")", nil
	case Formatter:
		return v.FormatValue(s)
	case Internal:
		if s == Readable {
			return "", ErrNotReadable
		}
		return "#<" + v.TypeName() + ">", nil
	}
	if s == Readable {
		return "", ErrNotReadable
	}
	return "#<" + v.Kind().String() + ">", nil
}

func formatInt(i int64, s Style) string {
	str := strconv.FormatInt(i, 10)
	if s != Plain && i < 0 {
		return "¯" + str[1:]
	}
	return str
}

func formatFloat(f float64, s Style) (string, error) {
	if s != Readable {
		str := strconv.FormatFloat(f, 'g', -1, 64)
		if s == Pretty {
			str = strings.ReplaceAll(str, "-", "¯")
		}
		return str, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", errs.Domain{What: "readable float", Actual: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	str := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(str, ".e") {
		str += ".0"
	}
	str = strings.ReplaceAll(str, "e+", "E")
	str = strings.ReplaceAll(str, "e-", "E¯")
	return strings.ReplaceAll(str, "-", "¯"), nil
}

var readableEscaper = strings.NewReplacer(`"`, `\"`, `\`, `\\`, "\n", `\n`, "\t", `\t`)

// writeReadable writes the readable form of v. Nested arrays are
// parenthesized when they appear as elements.
func writeReadable(sb *strings.Builder, v Value, nested bool) error {
	if !IsArray(v) {
		s, err := formatScalar(v, Readable)
		if err != nil {
			return err
		}
		sb.WriteString(s)
		return nil
	}
	if s, ok, err := charsOf(v); err != nil {
		return err
	} else if ok {
		sb.WriteString(`"` + readableEscaper.Replace(s) + `"`)
		return nil
	}
	if nested {
		sb.WriteByte('(')
		defer sb.WriteByte(')')
	}
	d := v.Dims()
	switch {
	case d.Rank() == 0:
		e, err := v.ValueAt(0)
		if err != nil {
			return err
		}
		sb.WriteString("⊂")
		return writeReadable(sb, e, true)
	case d.ContentSize() == 0:
		if d.Rank() != 1 {
			writeShape(sb, d.Ints())
			sb.WriteString("⍴")
		}
		sb.WriteString("⍬")
		return nil
	}
	if d.Rank() != 1 || d.At(0) == 1 {
		writeShape(sb, d.Ints())
		sb.WriteString("⍴")
	}
	n := d.ContentSize()
	for i := 0; i < n; i++ {
		e, err := v.ValueAt(i)
		if err != nil {
			return err
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		// A lone element is not a strand, so ⍴ would spread its content.
		if n == 1 && IsArray(e) {
			sb.WriteString("⊂")
		}
		if err := writeReadable(sb, e, true); err != nil {
			return err
		}
	}
	return nil
}

func writeShape(sb *strings.Builder, ds []int) {
	for i, n := range ds {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(itoa(n))
	}
}
