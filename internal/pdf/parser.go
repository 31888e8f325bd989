package pdf

import (
	"bytes"
	"fmt"
)

type parser struct {
	lx *lexer
}

func newParser(data []byte) *parser {
	return &parser{lx: newLexer(data)}
}

// parseObject parses any object. Integer tokens need two tokens of
// lookahead to distinguish "5 0 R" from a plain number.
func (p *parser) parseObject() (Object, error) {
	return p.fromToken(p.lx.next())
}

func (p *parser) fromToken(tok token) (Object, error) {
	switch tok.kind {
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of input")
	case tokErr:
		return nil, fmt.Errorf("lex error: %s", tok.text)
	case tokNumber:
		if tok.isInt {
			save := p.lx.pos
			gen := p.lx.next()
			if gen.kind == tokNumber && gen.isInt {
				if r := p.lx.next(); r.kind == tokKeyword && r.text == "R" {
					return &Ref{Num: int(tok.i), Gen: int(gen.i)}, nil
				}
			}
			p.lx.pos = save
			return tok.i, nil
		}
		return tok.f, nil
	case tokString:
		return String(tok.str), nil
	case tokName:
		return Name(tok.text), nil
	case tokArrayOpen:
		return p.parseArray()
	case tokDictOpen:
		return p.parseDictOrStream()
	case tokKeyword:
		switch tok.text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return Null{}, nil
		}
		return nil, fmt.Errorf("unexpected keyword %q", tok.text)
	}
	return nil, fmt.Errorf("unexpected token kind %d", tok.kind)
}

func (p *parser) parseArray() (Array, error) {
	var arr Array
	for {
		tok := p.lx.peek()
		switch tok.kind {
		case tokArrayClose:
			p.lx.next()
			return arr, nil
		case tokEOF:
			return nil, fmt.Errorf("unterminated array")
		}
		obj, err := p.parseObject()
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", len(arr), err)
		}
		arr = append(arr, obj)
	}
}

func (p *parser) parseDict() (Dict, error) {
	dict := make(Dict)
	for {
		tok := p.lx.next()
		switch tok.kind {
		case tokDictClose:
			return dict, nil
		case tokEOF:
			return nil, fmt.Errorf("unterminated dictionary")
		case tokName:
			val, err := p.parseObject()
			if err != nil {
				return nil, fmt.Errorf("value for /%s: %w", tok.text, err)
			}
			dict[Name(tok.text)] = val
		default:
			return nil, fmt.Errorf("dictionary key is not a name")
		}
	}
}

// parseDictOrStream parses a dictionary and, when the "stream" keyword
// follows, the raw stream data after it. An indirect Length is handled by
// scanning for the endstream keyword instead.
func (p *parser) parseDictOrStream() (Object, error) {
	dict, err := p.parseDict()
	if err != nil {
		return nil, err
	}

	lx := p.lx
	lx.skipSpace()
	if !bytes.HasPrefix(lx.data[lx.pos:], []byte("stream")) {
		return dict, nil
	}
	lx.pos += len("stream")
	if lx.pos < len(lx.data) && lx.data[lx.pos] == '\r' {
		lx.pos++
	}
	if lx.pos < len(lx.data) && lx.data[lx.pos] == '\n' {
		lx.pos++
	}

	start := lx.pos
	var end int
	if length, ok := dict.Int("Length"); ok {
		end = start + int(length)
		if end > len(lx.data) {
			end = len(lx.data)
		}
	} else {
		idx := bytes.Index(lx.data[start:], []byte("endstream"))
		if idx < 0 {
			return nil, fmt.Errorf("unterminated stream")
		}
		end = start + idx
		for end > start && (lx.data[end-1] == '\n' || lx.data[end-1] == '\r') {
			end--
		}
	}

	raw := lx.data[start:end]
	lx.pos = end
	lx.skipSpace()
	if bytes.HasPrefix(lx.data[lx.pos:], []byte("endstream")) {
		lx.pos += len("endstream")
	}
	return &Stream{Dict: dict, Raw: raw}, nil
}

// parseIndirect parses "num gen obj ... endobj".
func (p *parser) parseIndirect() (int, Object, error) {
	numTok := p.lx.next()
	genTok := p.lx.next()
	objTok := p.lx.next()
	if numTok.kind != tokNumber || !numTok.isInt ||
		genTok.kind != tokNumber || !genTok.isInt ||
		objTok.kind != tokKeyword || objTok.text != "obj" {
		return 0, nil, fmt.Errorf("malformed indirect object header")
	}

	obj, err := p.parseObject()
	if err != nil {
		return 0, nil, fmt.Errorf("object %d: %w", numTok.i, err)
	}
	// Some writers emit sloppy endings; scan forward rather than insisting.
	for {
		tok := p.lx.next()
		if tok.kind == tokEOF || (tok.kind == tokKeyword && tok.text == "endobj") {
			break
		}
	}
	return int(numTok.i), obj, nil
}

// parseObjStm extracts the objects of a decoded object stream. The stream
// starts with N pairs of (object number, offset), then the objects
// themselves starting at First.
func parseObjStm(data []byte, dict Dict) (map[int]Object, error) {
	n, ok := dict.Int("N")
	if !ok {
		return nil, fmt.Errorf("object stream missing /N")
	}
	first, ok := dict.Int("First")
	if !ok {
		return nil, fmt.Errorf("object stream missing /First")
	}
	if first > int64(len(data)) {
		return nil, fmt.Errorf("object stream /First beyond data")
	}

	head := newLexer(data[:first])
	type entry struct{ num, off int }
	var entries []entry
	for i := int64(0); i < n; i++ {
		numTok := head.next()
		offTok := head.next()
		if numTok.kind != tokNumber || offTok.kind != tokNumber {
			break
		}
		entries = append(entries, entry{num: int(numTok.i), off: int(offTok.i)})
	}

	body := data[first:]
	objects := make(map[int]Object, len(entries))
	for i, e := range entries {
		if e.off < 0 || e.off >= len(body) {
			continue
		}
		end := len(body)
		if i+1 < len(entries) {
			end = entries[i+1].off
		}
		if end > len(body) {
			end = len(body)
		}
		if end < e.off {
			continue
		}
		p := newParser(bytes.TrimSpace(body[e.off:end]))
		if obj, err := p.parseObject(); err == nil {
			objects[e.num] = obj
		}
	}
	return objects, nil
}
