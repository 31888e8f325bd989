// Package pdf rasterizes PDF pages so they can be viewed like any other
// picture. It is a viewing rasterizer, not a full PDF implementation:
// vector content is filled and stroked, text and embedded images are
// skipped.
package pdf

// Object is any value from the PDF object graph: Null, bool, int64,
// float64, String, Name, Array, Dict, *Stream, or *Ref.
type Object any

// Null marks an explicit null object, as opposed to a missing key.
type Null struct{}

// Name is a PDF name object such as /Type or /MediaBox.
type Name string

// String is a PDF string, literal or hex encoded. Byte content, not text.
type String []byte

// Array is a PDF array.
type Array []Object

// Ref is an indirect reference, e.g. "5 0 R".
type Ref struct {
	Num, Gen int
}

// Stream is a stream object: a dictionary followed by raw, still-encoded
// data. Decoding happens lazily through Reader.decodeStream.
type Stream struct {
	Dict Dict
	Raw  []byte
}

// Dict is a PDF dictionary.
type Dict map[Name]Object

// Int returns an integer value, or ok=false if absent or not an integer.
func (d Dict) Int(key Name) (int64, bool) {
	n, ok := d[key].(int64)
	return n, ok
}

// Float returns a numeric value as float64. PDF writers use integers and
// reals interchangeably for numbers.
func (d Dict) Float(key Name) (float64, bool) {
	switch v := d[key].(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// ArrayVal returns an array value.
func (d Dict) ArrayVal(key Name) (Array, bool) {
	a, ok := d[key].(Array)
	return a, ok
}

// NameVal returns a name value.
func (d Dict) NameVal(key Name) (Name, bool) {
	n, ok := d[key].(Name)
	return n, ok
}

// RefVal returns an indirect reference value.
func (d Dict) RefVal(key Name) (*Ref, bool) {
	r, ok := d[key].(*Ref)
	return r, ok
}

// num converts an Object holding an integer or real to float64.
func num(obj Object) float64 {
	switch v := obj.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}
