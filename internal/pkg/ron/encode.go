package ron

import (
	"strconv"
	"strings"
)

// Marshal renders a value on a single line
func Marshal(v Value) string {
	var b strings.Builder
	write(&b, v, "", "")
	return b.String()
}

// MarshalIndent renders lists, maps and structs one member per line, with a
// trailing comma after every member. Tuples stay on one line.
func MarshalIndent(v Value, indent string) string {
	var b strings.Builder
	write(&b, v, "", indent)
	return b.String()
}

func write(b *strings.Builder, v Value, prefix, indent string) {
	switch v.Kind {
	case KindString:
		b.WriteString(quote(v.Str))
	case KindNumber:
		if v.NumText != "" {
			b.WriteString(v.NumText)
		} else {
			b.WriteString(strconv.FormatFloat(v.Num, 'f', -1, 64))
		}
	case KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case KindIdent:
		b.WriteString(v.Name)
	case KindTuple:
		b.WriteString(v.Name)
		b.WriteByte('(')
		for i, e := range v.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, e, prefix, "")
		}
		b.WriteByte(')')
	case KindStruct:
		b.WriteString(v.Name)
		block(b, '(', ')', len(v.Fields), prefix, indent, func(i int, inner string) {
			b.WriteString(v.Fields[i].Name)
			b.WriteString(": ")
			write(b, v.Fields[i].Value, inner, indent)
		})
	case KindList:
		block(b, '[', ']', len(v.Elems), prefix, indent, func(i int, inner string) {
			write(b, v.Elems[i], inner, indent)
		})
	case KindMap:
		block(b, '{', '}', len(v.Entries), prefix, indent, func(i int, inner string) {
			write(b, v.Entries[i].Key, inner, indent)
			b.WriteString(": ")
			write(b, v.Entries[i].Value, inner, indent)
		})
	}
}

func block(b *strings.Builder, open, closer byte, n int, prefix, indent string, member func(i int, inner string)) {
	b.WriteByte(open)
	if n == 0 {
		b.WriteByte(closer)
		return
	}

	if indent == "" {
		for i := 0; i < n; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			member(i, prefix)
		}
		b.WriteByte(closer)
		return
	}

	inner := prefix + indent
	b.WriteByte('\n')
	for i := 0; i < n; i++ {
		b.WriteString(inner)
		member(i, inner)
		b.WriteString(",\n")
	}
	b.WriteString(prefix)
	b.WriteByte(closer)
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
