package pdf

import (
	"bytes"
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokErr
	tokNumber
	tokName
	tokString
	tokDictOpen
	tokDictClose
	tokArrayOpen
	tokArrayClose
	tokKeyword
)

// token is one lexical unit of PDF syntax. The same lexer serves both the
// object graph and content streams; content operators come out as keywords.
type token struct {
	kind  tokenKind
	text  string // keyword or name text, or the error message
	str   []byte // string content for tokString
	f     float64
	i     int64
	isInt bool
}

type lexer struct {
	data []byte
	pos  int
}

func newLexer(data []byte) *lexer {
	return &lexer{data: data}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == 0
}

func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		switch {
		case isSpace(b):
			l.pos++
		case b == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

// peek returns the next token without consuming it.
func (l *lexer) peek() token {
	save := l.pos
	tok := l.next()
	l.pos = save
	return tok
}

func (l *lexer) next() token {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return token{kind: tokEOF}
	}

	b := l.data[l.pos]
	switch {
	case b == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return token{kind: tokDictOpen}
		}
		return l.scanHexString()
	case b == '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return token{kind: tokDictClose}
		}
		l.pos++
		return token{kind: tokErr, text: "stray '>'"}
	case b == '[':
		l.pos++
		return token{kind: tokArrayOpen}
	case b == ']':
		l.pos++
		return token{kind: tokArrayClose}
	case b == '/':
		return l.scanName()
	case b == '(':
		return l.scanLiteralString()
	case b >= '0' && b <= '9', b == '+', b == '-', b == '.':
		return l.scanNumber()
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return l.scanKeyword()
	case b == '\'', b == '"':
		l.pos++
		return token{kind: tokKeyword, text: string(b)}
	}

	l.pos++
	return token{kind: tokErr, text: fmt.Sprintf("unexpected byte %q", b)}
}

// scanName reads a /Name, decoding #XX escapes.
func (l *lexer) scanName() token {
	l.pos++ // '/'
	var buf bytes.Buffer
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isSpace(b) || isDelim(b) {
			break
		}
		if b == '#' && l.pos+2 < len(l.data) {
			if v, err := strconv.ParseUint(string(l.data[l.pos+1:l.pos+3]), 16, 8); err == nil {
				buf.WriteByte(byte(v))
				l.pos += 3
				continue
			}
		}
		buf.WriteByte(b)
		l.pos++
	}
	return token{kind: tokName, text: buf.String()}
}

// scanLiteralString reads a (...) string, handling escapes and balanced
// nested parentheses.
func (l *lexer) scanLiteralString() token {
	l.pos++ // '('
	var buf bytes.Buffer
	depth := 1
	for l.pos < len(l.data) && depth > 0 {
		b := l.data[l.pos]
		if b == '\\' && l.pos+1 < len(l.data) {
			l.pos++
			e := l.data[l.pos]
			switch e {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '(', ')', '\\':
				buf.WriteByte(e)
			case '\r':
				if l.pos+1 < len(l.data) && l.data[l.pos+1] == '\n' {
					l.pos++
				}
			case '\n':
				// escaped line break, drop it
			default:
				if e >= '0' && e <= '7' {
					oct := []byte{e}
					for len(oct) < 3 && l.pos+1 < len(l.data) && l.data[l.pos+1] >= '0' && l.data[l.pos+1] <= '7' {
						l.pos++
						oct = append(oct, l.data[l.pos])
					}
					if v, err := strconv.ParseUint(string(oct), 8, 16); err == nil {
						buf.WriteByte(byte(v))
					}
				} else {
					buf.WriteByte(e)
				}
			}
			l.pos++
			continue
		}
		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth > 0 {
				buf.WriteByte(b)
			}
		default:
			buf.WriteByte(b)
		}
		l.pos++
	}
	return token{kind: tokString, str: buf.Bytes()}
}

// scanHexString reads a <...> string.
func (l *lexer) scanHexString() token {
	l.pos++ // '<'
	var out []byte
	var hi byte
	half := false
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			break
		}
		if isSpace(b) {
			continue
		}
		var nib byte
		switch {
		case b >= '0' && b <= '9':
			nib = b - '0'
		case b >= 'A' && b <= 'F':
			nib = b - 'A' + 10
		case b >= 'a' && b <= 'f':
			nib = b - 'a' + 10
		default:
			continue
		}
		if half {
			out = append(out, hi<<4|nib)
			half = false
		} else {
			hi = nib
			half = true
		}
	}
	if half {
		out = append(out, hi<<4)
	}
	return token{kind: tokString, str: out}
}

func (l *lexer) scanNumber() token {
	start := l.pos
	if b := l.data[l.pos]; b == '+' || b == '-' {
		l.pos++
	}
	real := false
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if b >= '0' && b <= '9' {
			l.pos++
		} else if b == '.' && !real {
			real = true
			l.pos++
		} else {
			break
		}
	}
	text := string(l.data[start:l.pos])
	tok := token{kind: tokNumber}
	if real {
		tok.f, _ = strconv.ParseFloat(text, 64)
	} else {
		tok.isInt = true
		tok.i, _ = strconv.ParseInt(text, 10, 64)
		tok.f = float64(tok.i)
	}
	return tok
}

// scanKeyword reads an operator or keyword. The trailing '*' covers the
// even-odd painting operators (f*, B*, W*).
func (l *lexer) scanKeyword() token {
	start := l.pos
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '*' {
			l.pos++
		} else {
			break
		}
	}
	return token{kind: tokKeyword, text: string(l.data[start:l.pos])}
}
