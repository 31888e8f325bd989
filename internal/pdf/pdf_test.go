package pdf

import (
	"bytes"
	"compress/zlib"
	"encoding/ascii85"
	"fmt"
	"image"
	"image/color"
	"testing"
)

// buildPDF assembles a classic-xref file from object bodies. Object
// numbers start at 1 and object 1 is the catalog.
func buildPDF(t *testing.T, bodies ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(bodies)+1)
	for i, body := range bodies {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xrefOff := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(bodies)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(bodies); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(bodies)+1, xrefOff)
	return buf.Bytes()
}

func streamObj(extra, contents string) string {
	return fmt.Sprintf("<< /Length %d %s >>\nstream\n%s\nendstream",
		len(contents), extra, contents)
}

// singlePage wraps one content stream in a minimal document.
func singlePage(t *testing.T, mediaBox, contents string) *Document {
	t.Helper()
	data := buildPDF(t,
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox %s /Contents 4 0 R >>", mediaBox),
		streamObj("", contents),
	)
	doc, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	return doc
}

func pixel(t *testing.T, img image.Image, x, y int) color.RGBA {
	t.Helper()
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestOpenRendersFilledRect(t *testing.T) {
	doc := singlePage(t, "[0 0 200 100]", "1 0 0 rg\n50 25 100 50 re\nf")
	if got := doc.PageCount(); got != 1 {
		t.Fatalf("PageCount = %d, want 1", got)
	}

	img, err := doc.RenderPage(0, 72)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("bounds = %v, want 200x100", b)
	}
	if got := pixel(t, img, 100, 50); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("center = %v, want red", got)
	}
	if got := pixel(t, img, 5, 5); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("corner = %v, want white", got)
	}
}

func TestStrokePaintsLine(t *testing.T) {
	doc := singlePage(t, "[0 0 200 100]", "0 0 1 RG\n4 w\n20 50 m\n180 50 l\nS")
	img, err := doc.RenderPage(0, 72)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	// y is flipped, so user y=50 lands mid-image.
	if got := pixel(t, img, 100, 50); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("on line = %v, want blue", got)
	}
	if got := pixel(t, img, 100, 20); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("off line = %v, want white", got)
	}
}

func TestFillFollowsConcatenatedMatrix(t *testing.T) {
	doc := singlePage(t, "[0 0 200 100]", "q\n2 0 0 2 0 0 cm\n10 10 20 20 re\nf\nQ")
	img, err := doc.RenderPage(0, 72)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	// User 10..30 doubles to device x 20..60, y 40..80.
	if got := pixel(t, img, 40, 60); got != (color.RGBA{A: 255}) {
		t.Errorf("inside scaled rect = %v, want black", got)
	}
	if got := pixel(t, img, 10, 10); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("outside scaled rect = %v, want white", got)
	}
}

func TestInheritedMediaBoxAndDPI(t *testing.T) {
	data := buildPDF(t,
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 100 50] >>",
		"<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>",
		streamObj("", "0 0 10 10 re f"),
	)
	doc, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	img, err := doc.RenderPage(0, 144)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("bounds at 144 dpi = %v, want 200x100", b)
	}
}

func TestRenderPageOutOfRange(t *testing.T) {
	doc := singlePage(t, "[0 0 200 100]", "")
	if _, err := doc.RenderPage(1, 72); err == nil {
		t.Error("RenderPage(1) on a one-page file succeeded")
	}
	if _, err := doc.RenderPage(-1, 72); err == nil {
		t.Error("RenderPage(-1) succeeded")
	}
}

func TestOpenBytesRejectsNonPDF(t *testing.T) {
	if _, err := OpenBytes([]byte("GIF89a not a pdf")); err == nil {
		t.Error("OpenBytes accepted a non-PDF header")
	}
}

func TestFlateDecode(t *testing.T) {
	want := bytes.Repeat([]byte("viewer "), 40)
	var comp bytes.Buffer
	zw := zlib.NewWriter(&comp)
	zw.Write(want)
	zw.Close()

	s := &Stream{
		Dict: Dict{"Filter": Name("FlateDecode"), "Length": int64(comp.Len())},
		Raw:  comp.Bytes(),
	}
	got, err := decodeStream(s)
	if err != nil {
		t.Fatalf("decodeStream: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("flate round trip mismatch: got %d bytes, want %d", len(got), len(want))
	}
}

func TestASCIIHexDecode(t *testing.T) {
	got, err := decodeASCIIHex([]byte("48 65 6c 6c 6f>"))
	if err != nil {
		t.Fatalf("decodeASCIIHex: %v", err)
	}
	if string(got) != "Hello" {
		t.Errorf("decoded %q, want %q", got, "Hello")
	}

	// A trailing odd digit is padded with zero.
	got, err = decodeASCIIHex([]byte("7>"))
	if err != nil {
		t.Fatalf("decodeASCIIHex odd: %v", err)
	}
	if len(got) != 1 || got[0] != 0x70 {
		t.Errorf("odd digit decoded to %v, want [0x70]", got)
	}
}

func TestASCII85Decode(t *testing.T) {
	want := []byte("first page preview")
	enc := make([]byte, ascii85.MaxEncodedLen(len(want)))
	n := ascii85.Encode(enc, want)
	got, err := decodeASCII85(append(enc[:n], []byte("~>")...))
	if err != nil {
		t.Fatalf("decodeASCII85: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("decoded %q, want %q", got, want)
	}
}

func TestPNGPredictorUp(t *testing.T) {
	// Two rows of four bytes with the Up filter: the second row stores
	// deltas against the first.
	data := []byte{
		2, 10, 20, 30, 40,
		2, 1, 1, 1, 1,
	}
	parm := Dict{"Predictor": int64(12), "Columns": int64(4)}
	got, err := applyPredictor(data, parm)
	if err != nil {
		t.Fatalf("applyPredictor: %v", err)
	}
	want := []byte{10, 20, 30, 40, 11, 21, 31, 41}
	if !bytes.Equal(got, want) {
		t.Errorf("predictor output %v, want %v", got, want)
	}
}

func TestLexerStringsAndNames(t *testing.T) {
	lx := newLexer([]byte(`(a\(b\)c\n\053) <48 65> /A#42C`))

	tok := lx.next()
	if tok.kind != tokString || string(tok.str) != "a(b)c\n+" {
		t.Errorf("literal string = %q", tok.str)
	}
	tok = lx.next()
	if tok.kind != tokString || string(tok.str) != "He" {
		t.Errorf("hex string = %q", tok.str)
	}
	tok = lx.next()
	if tok.kind != tokName || tok.text != "ABC" {
		t.Errorf("name = %q", tok.text)
	}
}

func TestParserResolvesReferencesAndStreams(t *testing.T) {
	p := newParser([]byte("<< /A 5 0 R /B [1 2.5 (x)] /C /N >>"))
	obj, err := p.parseObject()
	if err != nil {
		t.Fatalf("parseObject: %v", err)
	}
	dict, ok := obj.(Dict)
	if !ok {
		t.Fatalf("parsed %T, want Dict", obj)
	}
	ref, ok := dict.RefVal("A")
	if !ok || ref.Num != 5 || ref.Gen != 0 {
		t.Errorf("/A = %+v, want reference 5 0", ref)
	}
	arr, ok := dict.ArrayVal("B")
	if !ok || len(arr) != 3 {
		t.Fatalf("/B = %v, want 3-element array", arr)
	}
	if arr[0] != int64(1) || arr[1] != 2.5 {
		t.Errorf("numbers = %v %v, want 1 2.5", arr[0], arr[1])
	}

	p = newParser([]byte("<< /Length 5 >>\nstream\nhello\nendstream"))
	obj, err = p.parseObject()
	if err != nil {
		t.Fatalf("parseObject stream: %v", err)
	}
	stm, ok := obj.(*Stream)
	if !ok {
		t.Fatalf("parsed %T, want *Stream", obj)
	}
	if string(stm.Raw) != "hello" {
		t.Errorf("stream data = %q, want %q", stm.Raw, "hello")
	}
}
