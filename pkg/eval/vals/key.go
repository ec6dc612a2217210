package vals

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Key is a canonical form of a value, usable as a map key. Two values have
// the same key exactly when they are Equal.
type Key string

// KeyOf computes the key of v.
func KeyOf(v Value) (Key, error) {
	var sb strings.Builder
	if err := writeKey(&sb, v); err != nil {
		return "", err
	}
	return Key(sb.String()), nil
}

func writeKey(sb *strings.Builder, v Value) error {
	if IsArray(v) {
		sb.WriteString("a")
		sb.WriteString(v.Dims().String())
		sb.WriteString("{")
		n := Size(v)
		for i := 0; i < n; i++ {
			e, err := v.ValueAt(i)
			if err != nil {
				return err
			}
			if err := writeKey(sb, e); err != nil {
				return err
			}
			sb.WriteString(",")
		}
		sb.WriteString("}")
		return nil
	}
	switch v := v.(type) {
	case Int:
		sb.WriteString("i" + strconv.FormatInt(int64(v), 10))
	case Float:
		writeFloatKey(sb, float64(v))
	case Complex:
		sb.WriteString("c" + strconv.FormatFloat(real(v), 'g', -1, 64) +
			"," + strconv.FormatFloat(imag(v), 'g', -1, 64))
	case Char:
		sb.WriteString("r" + strconv.Itoa(int(v)))
	case Sym:
		sb.WriteString("s" + v.String())
	case NilValue:
		sb.WriteString("n")
	case *List:
		sb.WriteString("l(")
		for _, e := range v.elems {
			if err := writeKey(sb, e); err != nil {
				return err
			}
			sb.WriteString(";")
		}
		sb.WriteString(")")
	default:
		fmt.Fprintf(sb, "o%T:%p", v, v)
	}
	return nil
}

func writeFloatKey(sb *strings.Builder, f float64) {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		sb.WriteString("i" + strconv.FormatInt(int64(f), 10))
		return
	}
	sb.WriteString("f" + strconv.FormatFloat(f, 'g', -1, 64))
}
