package pdf

import (
	"bytes"
	"fmt"
	"os"
)

// Document is a parsed PDF file. It resolves objects lazily through the
// cross-reference table and caches what it has seen.
type Document struct {
	data  []byte
	xref  *xref
	cache map[int]Object
	pages []page
}

type page struct {
	dict     Dict
	mediaBox [4]float64
}

// Open reads and parses the PDF file at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return OpenBytes(data)
}

// OpenBytes parses an in-memory PDF file.
func OpenBytes(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("not a PDF file")
	}
	start, err := findStartXref(data)
	if err != nil {
		return nil, err
	}
	x, err := parseXref(data, start)
	if err != nil {
		return nil, err
	}
	d := &Document{data: data, xref: x, cache: make(map[int]Object)}
	if err := d.loadPages(); err != nil {
		return nil, err
	}
	return d, nil
}

// PageCount reports the number of pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// resolve follows references until a direct object remains.
func (d *Document) resolve(obj Object) Object {
	for i := 0; i < 32; i++ {
		ref, ok := obj.(*Ref)
		if !ok {
			return obj
		}
		o, err := d.object(ref.Num)
		if err != nil {
			return Null{}
		}
		obj = o
	}
	return Null{}
}

func (d *Document) object(num int) (Object, error) {
	if obj, ok := d.cache[num]; ok {
		return obj, nil
	}
	entry, ok := d.xref.entries[num]
	if !ok {
		return Null{}, nil
	}
	if entry.compressed {
		if err := d.loadObjStm(int(entry.offset)); err != nil {
			return nil, err
		}
		if obj, ok := d.cache[num]; ok {
			return obj, nil
		}
		return Null{}, nil
	}
	if entry.offset < 0 || entry.offset >= int64(len(d.data)) {
		return nil, fmt.Errorf("object %d: offset out of range", num)
	}
	p := newParser(d.data[entry.offset:])
	gotNum, obj, err := p.parseIndirect()
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", num, err)
	}
	if gotNum != num {
		return nil, fmt.Errorf("object %d: found %d at its offset", num, gotNum)
	}
	d.cache[num] = obj
	return obj, nil
}

// loadObjStm decodes one object stream and caches all objects inside it.
func (d *Document) loadObjStm(num int) error {
	obj, err := d.object(num)
	if err != nil {
		return err
	}
	stm, ok := obj.(*Stream)
	if !ok {
		return fmt.Errorf("object stream %d is not a stream", num)
	}
	decoded, err := decodeStream(stm)
	if err != nil {
		return fmt.Errorf("object stream %d: %w", num, err)
	}
	objects, err := parseObjStm(decoded, stm.Dict)
	if err != nil {
		return fmt.Errorf("object stream %d: %w", num, err)
	}
	for n, o := range objects {
		if _, ok := d.cache[n]; !ok {
			d.cache[n] = o
		}
	}
	return nil
}

func (d *Document) dictAt(obj Object) (Dict, bool) {
	dict, ok := d.resolve(obj).(Dict)
	return dict, ok
}

func (d *Document) loadPages() error {
	root, ok := d.dictAt(d.xref.trailer["Root"])
	if !ok {
		return fmt.Errorf("document catalog not found")
	}
	pagesRoot, ok := d.dictAt(root["Pages"])
	if !ok {
		return fmt.Errorf("page tree not found")
	}
	defaultBox := [4]float64{0, 0, 612, 792}
	return d.walkPages(pagesRoot, defaultBox, 0)
}

// walkPages recurses through the page tree, carrying the inherited
// MediaBox down to leaf pages.
func (d *Document) walkPages(node Dict, box [4]float64, depth int) error {
	if depth > 64 {
		return fmt.Errorf("page tree too deep")
	}
	if b, ok := d.rectValue(node["MediaBox"]); ok {
		box = b
	}
	typ, _ := node.NameVal("Type")
	if typ == "Page" {
		d.pages = append(d.pages, page{dict: node, mediaBox: box})
		return nil
	}
	kids, ok := d.resolve(node["Kids"]).(Array)
	if !ok {
		return nil
	}
	for _, kid := range kids {
		kd, ok := d.dictAt(kid)
		if !ok {
			continue
		}
		if err := d.walkPages(kd, box, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) rectValue(obj Object) ([4]float64, bool) {
	arr, ok := d.resolve(obj).(Array)
	if !ok || len(arr) < 4 {
		return [4]float64{}, false
	}
	var box [4]float64
	for i := 0; i < 4; i++ {
		box[i] = num(d.resolve(arr[i]))
	}
	return box, true
}

// pageContent concatenates a page's decoded content streams.
func (d *Document) pageContent(pg page) ([]byte, error) {
	var streams []*Stream
	switch c := d.resolve(pg.dict["Contents"]).(type) {
	case *Stream:
		streams = []*Stream{c}
	case Array:
		for _, v := range c {
			if s, ok := d.resolve(v).(*Stream); ok {
				streams = append(streams, s)
			}
		}
	}
	var buf bytes.Buffer
	for _, s := range streams {
		decoded, err := decodeStream(s)
		if err != nil {
			return nil, err
		}
		buf.Write(decoded)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
