package pdf

import (
	"bytes"
	"fmt"
	"strconv"
)

// xrefEntry locates one object. Compressed objects live inside an object
// stream, in which case offset holds the stream's object number and index
// the position within it.
type xrefEntry struct {
	offset     int64
	index      int
	compressed bool
}

type xref struct {
	entries map[int]xrefEntry
	trailer Dict
}

func findStartXref(data []byte) (int64, error) {
	tail := data
	if len(tail) > 2048 {
		tail = tail[len(tail)-2048:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("startxref not found")
	}
	lx := newLexer(tail[idx+len("startxref"):])
	tok := lx.next()
	if tok.kind != tokNumber || !tok.isInt {
		return 0, fmt.Errorf("malformed startxref")
	}
	return tok.i, nil
}

// parseXref reads the cross-reference section at offset and walks the Prev
// chain. Newer sections are read first, so an existing entry is never
// overwritten by an older one.
func parseXref(data []byte, offset int64) (*xref, error) {
	x := &xref{entries: make(map[int]xrefEntry), trailer: make(Dict)}
	seen := make(map[int64]bool)
	for {
		if offset < 0 || offset >= int64(len(data)) {
			return nil, fmt.Errorf("xref offset %d out of range", offset)
		}
		if seen[offset] {
			break
		}
		seen[offset] = true

		var trailer Dict
		var err error
		if bytes.HasPrefix(bytes.TrimLeft(data[offset:], " \t\r\n"), []byte("xref")) {
			trailer, err = x.parseTable(data[offset:])
		} else {
			trailer, err = x.parseStream(data[offset:])
		}
		if err != nil {
			return nil, err
		}
		for k, v := range trailer {
			if _, ok := x.trailer[k]; !ok {
				x.trailer[k] = v
			}
		}
		prev, ok := trailer.Int("Prev")
		if !ok {
			break
		}
		offset = prev
	}
	return x, nil
}

func (x *xref) parseTable(data []byte) (Dict, error) {
	lx := newLexer(data)
	if tok := lx.next(); tok.kind != tokKeyword || tok.text != "xref" {
		return nil, fmt.Errorf("xref keyword not found")
	}
	for {
		lx.skipSpace()
		if bytes.HasPrefix(lx.data[lx.pos:], []byte("trailer")) {
			lx.pos += len("trailer")
			break
		}
		startTok := lx.next()
		countTok := lx.next()
		if startTok.kind != tokNumber || countTok.kind != tokNumber {
			return nil, fmt.Errorf("malformed xref subsection header")
		}
		start, count := int(startTok.i), int(countTok.i)

		// Entries are fixed-width 20-byte records.
		lx.skipSpace()
		for i := 0; i < count; i++ {
			if lx.pos+18 > len(lx.data) {
				return nil, fmt.Errorf("truncated xref entry")
			}
			rec := lx.data[lx.pos : lx.pos+18]
			off, err1 := strconv.ParseInt(string(bytes.TrimSpace(rec[0:10])), 10, 64)
			_, err2 := strconv.Atoi(string(bytes.TrimSpace(rec[11:16])))
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("malformed xref entry for object %d", start+i)
			}
			if rec[17] == 'n' {
				num := start + i
				if _, ok := x.entries[num]; !ok {
					x.entries[num] = xrefEntry{offset: off}
				}
			}
			lx.pos += 18
			for lx.pos < len(lx.data) && (lx.data[lx.pos] == ' ' || lx.data[lx.pos] == '\r' || lx.data[lx.pos] == '\n') {
				lx.pos++
			}
		}
	}

	p := &parser{lx: lx}
	if tok := lx.next(); tok.kind != tokDictOpen {
		return nil, fmt.Errorf("trailer dictionary not found")
	}
	return p.parseDict()
}

// parseStream handles a cross-reference stream: an indirect stream object
// whose decoded data holds binary entries described by the /W field widths.
func (x *xref) parseStream(data []byte) (Dict, error) {
	p := newParser(data)
	_, obj, err := p.parseIndirect()
	if err != nil {
		return nil, fmt.Errorf("xref stream: %w", err)
	}
	stm, ok := obj.(*Stream)
	if !ok {
		return nil, fmt.Errorf("xref offset does not point at a stream")
	}
	decoded, err := decodeStream(stm)
	if err != nil {
		return nil, fmt.Errorf("xref stream: %w", err)
	}

	wArr, ok := stm.Dict.ArrayVal("W")
	if !ok || len(wArr) < 3 {
		return nil, fmt.Errorf("xref stream missing /W")
	}
	var w [3]int
	for i := 0; i < 3; i++ {
		n, ok := asInt(wArr[i])
		if !ok {
			return nil, fmt.Errorf("xref stream /W is not integers")
		}
		w[i] = int(n)
	}
	rowLen := w[0] + w[1] + w[2]
	if rowLen == 0 {
		return nil, fmt.Errorf("xref stream /W is empty")
	}

	var index []int64
	if arr, ok := stm.Dict.ArrayVal("Index"); ok {
		for _, v := range arr {
			n, ok := asInt(v)
			if !ok {
				return nil, fmt.Errorf("xref stream /Index is not integers")
			}
			index = append(index, n)
		}
	} else {
		size, _ := stm.Dict.Int("Size")
		index = []int64{0, size}
	}

	pos := 0
	readField := func(width int) int64 {
		var v int64
		for i := 0; i < width; i++ {
			v = v<<8 | int64(decoded[pos])
			pos++
		}
		return v
	}
	for i := 0; i+1 < len(index); i += 2 {
		start, count := index[i], index[i+1]
		for j := int64(0); j < count; j++ {
			if pos+rowLen > len(decoded) {
				return stm.Dict, nil
			}
			typ := int64(1)
			if w[0] > 0 {
				typ = readField(w[0])
			}
			f2 := readField(w[1])
			f3 := readField(w[2])
			num := int(start + j)
			if _, ok := x.entries[num]; ok {
				continue
			}
			switch typ {
			case 1:
				x.entries[num] = xrefEntry{offset: f2}
			case 2:
				x.entries[num] = xrefEntry{offset: f2, index: int(f3), compressed: true}
			}
		}
	}
	return stm.Dict, nil
}

func asInt(o Object) (int64, bool) {
	switch v := o.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	}
	return 0, false
}
