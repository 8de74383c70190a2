package lsystem

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/sprout/pkg/errors"
)

// ParseSentence reads the notation produced by [Sentence.String].
// Whitespace between symbols is ignored. Errors carry
// [errors.ErrCodeParse] and the byte offset of the offending symbol.
func ParseSentence(text string) (Sentence, error) {
	p := parser{src: text}
	var out Sentence
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return out, nil
		}
		sym, err := p.symbol()
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) fail(format string, args ...any) error {
	return failAt(p.pos, format, args...)
}

func failAt(offset int, format string, args ...any) error {
	return errors.New(errors.ErrCodeParse, "offset %d: "+format, append([]any{offset}, args...)...)
}

func (p *parser) symbol() (Symbol, error) {
	c := p.src[p.pos]
	switch c {
	case '.':
		p.pos++
		return Vertex(), nil
	case '+':
		p.pos++
		return TurnPositive(), nil
	case '-':
		p.pos++
		return TurnNegative(), nil
	case '[':
		p.pos++
		return PushState(), nil
	case ']':
		p.pos++
		return PopState(), nil
	case '{':
		p.pos++
		return OpenPolygon(), nil
	case '}':
		p.pos++
		return ClosePolygon(), nil
	case 'G', 'A', 'B':
		start := p.pos
		args, err := p.arguments()
		if err != nil {
			return Symbol{}, err
		}
		return parametric(c, args, start)
	}
	return Symbol{}, p.fail("unexpected character %q", c)
}

// arguments consumes "X(a, b, ...)" and returns the trimmed argument texts.
func (p *parser) arguments() ([]string, error) {
	p.pos++
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return nil, p.fail("expected '(' after %q", p.src[p.pos-1])
	}
	end := strings.IndexByte(p.src[p.pos:], ')')
	if end < 0 {
		return nil, p.fail("unterminated argument list")
	}
	inner := p.src[p.pos+1 : p.pos+end]
	p.pos += end + 1
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func parametric(letter byte, args []string, offset int) (Symbol, error) {
	nums := func(n int) ([]float64, error) {
		vals := make([]float64, n)
		for i := 0; i < n; i++ {
			v, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				return nil, failAt(offset, "%c argument %d: %q is not a number", letter, i+1, args[i])
			}
			vals[i] = v
		}
		return vals, nil
	}

	switch letter {
	case 'G':
		if len(args) != 2 && len(args) != 3 {
			return Symbol{}, failAt(offset, "G takes 2 or 3 arguments, got %d", len(args))
		}
		v, err := nums(len(args))
		if err != nil {
			return Symbol{}, err
		}
		if len(v) == 3 {
			return GrowWithPotential(v[0], v[1], v[2]), nil
		}
		return Grow(v[0], v[1]), nil
	case 'A':
		if len(args) != 2 {
			return Symbol{}, failAt(offset, "A takes 2 arguments, got %d", len(args))
		}
		v, err := nums(1)
		if err != nil {
			return Symbol{}, err
		}
		dir, err := strconv.ParseBool(args[1])
		if err != nil {
			return Symbol{}, failAt(offset, "A direction %q is not a boolean", args[1])
		}
		return MainApex(v[0], dir), nil
	default:
		if len(args) != 1 {
			return Symbol{}, failAt(offset, "B takes 1 argument, got %d", len(args))
		}
		v, err := nums(1)
		if err != nil {
			return Symbol{}, err
		}
		return SideApex(v[0]), nil
	}
}
