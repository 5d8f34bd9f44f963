package ron

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxDepth bounds nesting so hostile input cannot exhaust the stack
const maxDepth = 256

// SyntaxError reports where a document stopped making sense
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("ron: %d:%d: %s", e.Line, e.Col, e.Msg)
}

type parser struct {
	src   string
	pos   int
	depth int
}

// Parse reads a single document. Leading #![enable(..)] attributes are
// skipped and anything but trailing whitespace or comments after the value is
// an error.
func Parse(src string) (Value, error) {
	p := &parser{src: src}

	if err := p.skipAttributes(); err != nil {
		return Value{}, err
	}

	v, err := p.value()
	if err != nil {
		return Value{}, err
	}

	if err := p.skipSpace(); err != nil {
		return Value{}, err
	}
	if p.pos < len(p.src) {
		return Value{}, p.errorf("unexpected trailing input %q", p.snippet())
	}

	return v, nil
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	line, col := 1, 1
	for _, r := range p.src[:p.pos] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) snippet() string {
	end := p.pos + 16
	if end > len(p.src) {
		end = len(p.src)
	}
	return p.src[p.pos:end]
}

func (p *parser) peek() rune {
	if p.pos >= len(p.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *parser) next() rune {
	if p.pos >= len(p.src) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return r
}

func (p *parser) skipSpace() error {
	for p.pos < len(p.src) {
		switch {
		case strings.HasPrefix(p.src[p.pos:], "//"):
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += end + 1
			}
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			if err := p.skipBlockComment(); err != nil {
				return err
			}
		default:
			r := p.peek()
			if !unicode.IsSpace(r) {
				return nil
			}
			p.next()
		}
	}
	return nil
}

// skipBlockComment handles nested /* */ comments
func (p *parser) skipBlockComment() error {
	start := p.pos
	level := 0
	for p.pos < len(p.src) {
		switch {
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			level++
			p.pos += 2
		case strings.HasPrefix(p.src[p.pos:], "*/"):
			level--
			p.pos += 2
			if level == 0 {
				return nil
			}
		default:
			p.next()
		}
	}
	p.pos = start
	return p.errorf("unterminated block comment")
}

func (p *parser) skipAttributes() error {
	for {
		if err := p.skipSpace(); err != nil {
			return err
		}
		if !strings.HasPrefix(p.src[p.pos:], "#![") {
			return nil
		}
		end := strings.IndexByte(p.src[p.pos:], ']')
		if end < 0 {
			return p.errorf("unterminated attribute")
		}
		p.pos += end + 1
	}
}

func (p *parser) expect(r rune) error {
	if err := p.skipSpace(); err != nil {
		return err
	}
	if p.peek() != r {
		return p.errorf("expected %q, found %q", r, p.snippet())
	}
	p.next()
	return nil
}

func (p *parser) value() (Value, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return Value{}, p.errorf("document nested deeper than %d", maxDepth)
	}

	if err := p.skipSpace(); err != nil {
		return Value{}, err
	}

	r := p.peek()
	switch {
	case r == 0:
		return Value{}, p.errorf("unexpected end of input")
	case r == '"':
		s, err := p.quoted()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case r == 'r' && (strings.HasPrefix(p.src[p.pos:], `r"`) || strings.HasPrefix(p.src[p.pos:], `r#`)):
		s, err := p.raw()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case r == '\'':
		return p.char()
	case r == '[':
		return p.list()
	case r == '{':
		return p.mapValue()
	case r == '(':
		return p.paren("")
	case r == '-' || r == '+' || r == '.' || unicode.IsDigit(r):
		return p.number()
	case isIdentStart(r):
		name := p.ident()
		switch name {
		case "true":
			return Value{Kind: KindBool, Bool: true}, nil
		case "false":
			return Value{Kind: KindBool, Bool: false}, nil
		}
		if err := p.skipSpace(); err != nil {
			return Value{}, err
		}
		if p.peek() == '(' {
			return p.paren(name)
		}
		return Ident(name), nil
	default:
		return Value{}, p.errorf("unexpected character %q", r)
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentChar(p.peek()) {
		p.next()
	}
	return p.src[start:p.pos]
}

// paren parses the body after an optional name: a struct when the first
// member looks like `ident:`, a tuple otherwise.
func (p *parser) paren(name string) (Value, error) {
	if err := p.expect('('); err != nil {
		return Value{}, err
	}
	if err := p.skipSpace(); err != nil {
		return Value{}, err
	}

	if p.peek() == ')' {
		p.next()
		return Tuple(name), nil
	}

	if p.looksLikeField() {
		return p.structBody(name)
	}
	return p.tupleBody(name)
}

func (p *parser) looksLikeField() bool {
	save := p.pos
	defer func() { p.pos = save }()

	if !isIdentStart(p.peek()) {
		return false
	}
	p.ident()
	if err := p.skipSpace(); err != nil {
		return false
	}
	return p.peek() == ':' && !strings.HasPrefix(p.src[p.pos:], "::")
}

func (p *parser) structBody(name string) (Value, error) {
	v := Struct(name)
	for {
		if err := p.skipSpace(); err != nil {
			return Value{}, err
		}
		if p.peek() == ')' {
			p.next()
			return v, nil
		}
		if !isIdentStart(p.peek()) {
			return Value{}, p.errorf("expected field name, found %q", p.snippet())
		}
		field := p.ident()
		if err := p.expect(':'); err != nil {
			return Value{}, err
		}
		fv, err := p.value()
		if err != nil {
			return Value{}, err
		}
		v.Fields = append(v.Fields, Field{Name: field, Value: fv})

		done, err := p.separator(')')
		if err != nil {
			return Value{}, err
		}
		if done {
			return v, nil
		}
	}
}

func (p *parser) tupleBody(name string) (Value, error) {
	v := Tuple(name)
	elems, err := p.sequence(')')
	if err != nil {
		return Value{}, err
	}
	v.Elems = elems
	return v, nil
}

func (p *parser) list() (Value, error) {
	p.next()
	elems, err := p.sequence(']')
	if err != nil {
		return Value{}, err
	}
	return List(elems...), nil
}

func (p *parser) sequence(closer rune) ([]Value, error) {
	var elems []Value
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == closer {
			p.next()
			return elems, nil
		}
		ev, err := p.value()
		if err != nil {
			return nil, err
		}
		elems = append(elems, ev)

		done, err := p.separator(closer)
		if err != nil {
			return nil, err
		}
		if done {
			return elems, nil
		}
	}
}

// separator consumes a ',' (returning false) or the closer (returning true)
func (p *parser) separator(closer rune) (bool, error) {
	if err := p.skipSpace(); err != nil {
		return false, err
	}
	switch p.peek() {
	case ',':
		p.next()
		return false, nil
	case closer:
		p.next()
		return true, nil
	default:
		return false, p.errorf("expected ',' or %q, found %q", closer, p.snippet())
	}
}

func (p *parser) mapValue() (Value, error) {
	p.next()
	v := Value{Kind: KindMap}
	for {
		if err := p.skipSpace(); err != nil {
			return Value{}, err
		}
		if p.peek() == '}' {
			p.next()
			return v, nil
		}
		key, err := p.value()
		if err != nil {
			return Value{}, err
		}
		if err := p.expect(':'); err != nil {
			return Value{}, err
		}
		val, err := p.value()
		if err != nil {
			return Value{}, err
		}
		v.Entries = append(v.Entries, MapEntry{Key: key, Value: val})

		done, err := p.separator('}')
		if err != nil {
			return Value{}, err
		}
		if done {
			return v, nil
		}
	}
}

func (p *parser) number() (Value, error) {
	start := p.pos
	if r := p.peek(); r == '-' || r == '+' {
		p.next()
	}

	if strings.HasPrefix(p.src[p.pos:], "0x") {
		p.pos += 2
		digits := p.pos
		for p.pos < len(p.src) && (isHex(p.peek()) || p.peek() == '_') {
			p.next()
		}
		text := p.src[start:p.pos]
		n, err := strconv.ParseInt(strings.ReplaceAll(sign(text)+p.src[digits:p.pos], "_", ""), 16, 64)
		if err != nil {
			p.pos = start
			return Value{}, p.errorf("invalid hex number %q", text)
		}
		return Value{Kind: KindNumber, Num: float64(n), NumText: text}, nil
	}

	for p.pos < len(p.src) {
		r := p.peek()
		if unicode.IsDigit(r) || r == '.' || r == '_' || r == 'e' || r == 'E' {
			p.next()
			continue
		}
		if (r == '-' || r == '+') && p.pos > start {
			prev := p.src[p.pos-1]
			if prev == 'e' || prev == 'E' {
				p.next()
				continue
			}
		}
		break
	}

	text := p.src[start:p.pos]
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		p.pos = start
		return Value{}, p.errorf("invalid number %q", text)
	}
	return Value{Kind: KindNumber, Num: f, NumText: text}, nil
}

func sign(text string) string {
	if strings.HasPrefix(text, "-") {
		return "-"
	}
	return ""
}

func isHex(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (p *parser) quoted() (string, error) {
	start := p.pos
	p.next()

	var b strings.Builder
	for p.pos < len(p.src) {
		r := p.next()
		switch r {
		case '"':
			return b.String(), nil
		case '\\':
			esc, err := p.escape()
			if err != nil {
				return "", err
			}
			b.WriteString(esc)
		default:
			b.WriteRune(r)
		}
	}

	p.pos = start
	return "", p.errorf("unterminated string")
}

func (p *parser) escape() (string, error) {
	r := p.next()
	switch r {
	case 'n':
		return "\n", nil
	case 't':
		return "\t", nil
	case 'r':
		return "\r", nil
	case '0':
		return "\x00", nil
	case '\\', '"', '\'':
		return string(r), nil
	case 'u':
		if p.peek() != '{' {
			return "", p.errorf("expected '{' after \\u")
		}
		p.next()
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 0 {
			return "", p.errorf("unterminated unicode escape")
		}
		code, err := strconv.ParseUint(p.src[p.pos:p.pos+end], 16, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			return "", p.errorf("invalid unicode escape")
		}
		p.pos += end + 1
		return string(rune(code)), nil
	case 'x':
		if p.pos+2 > len(p.src) {
			return "", p.errorf("truncated \\x escape")
		}
		code, err := strconv.ParseUint(p.src[p.pos:p.pos+2], 16, 8)
		if err != nil {
			return "", p.errorf("invalid \\x escape")
		}
		p.pos += 2
		return string(rune(code)), nil
	default:
		return "", p.errorf("unknown escape \\%c", r)
	}
}

// raw parses r"..." and r#"..."# strings
func (p *parser) raw() (string, error) {
	start := p.pos
	p.next()

	hashes := 0
	for p.peek() == '#' {
		hashes++
		p.next()
	}
	if p.peek() != '"' {
		p.pos = start
		return "", p.errorf("malformed raw string")
	}
	p.next()

	closer := `"` + strings.Repeat("#", hashes)
	end := strings.Index(p.src[p.pos:], closer)
	if end < 0 {
		p.pos = start
		return "", p.errorf("unterminated raw string")
	}
	s := p.src[p.pos : p.pos+end]
	p.pos += end + len(closer)
	return s, nil
}

func (p *parser) char() (Value, error) {
	start := p.pos
	p.next()

	var s string
	if p.peek() == '\\' {
		p.next()
		esc, err := p.escape()
		if err != nil {
			return Value{}, err
		}
		s = esc
	} else {
		s = string(p.next())
	}

	if p.peek() != '\'' {
		p.pos = start
		return Value{}, p.errorf("unterminated char literal")
	}
	p.next()
	return String(s), nil
}
