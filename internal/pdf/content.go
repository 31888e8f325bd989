package pdf

import (
	"math"

	"github.com/fredrik-forsberg/PanZoomRotate/pkg/transform"
)

// rgb is a device color with components in [0,1].
type rgb struct {
	r, g, b float64
}

func gray(v float64) rgb { return rgb{v, v, v} }

func cmyk(c, m, y, k float64) rgb {
	return rgb{
		r: (1 - c) * (1 - k),
		g: (1 - m) * (1 - k),
		b: (1 - y) * (1 - k),
	}
}

type segKind byte

const (
	segMove segKind = iota
	segLine
	segCube
	segClose
)

// pathSeg is one painting step with points already in device space.
type pathSeg struct {
	kind segKind
	pts  [3]transform.Point
}

type devicePath struct {
	segs []pathSeg
}

func (p *devicePath) empty() bool { return len(p.segs) == 0 }

type gstate struct {
	ctm       transform.Matrix
	fill      rgb
	stroke    rgb
	lineWidth float64
}

// paintOps receives the finished paths of a content stream.
type paintOps struct {
	fill   func(p *devicePath, c rgb)
	stroke func(p *devicePath, c rgb, width float64)
}

// interp walks one content stream. Coordinates are mapped to device space
// as the path is built, because the CTM in effect at construction time is
// the one that applies.
type interp struct {
	st    gstate
	stack []gstate
	paint paintOps

	path       devicePath
	start, cur transform.Point
	startUser  transform.Point
	curUser    transform.Point
	textDepth  int
}

// runContent interprets a decoded content stream with dev as the initial
// matrix from user space to pixels.
func runContent(data []byte, dev transform.Matrix, paint paintOps) error {
	in := &interp{
		st:    gstate{ctm: dev, lineWidth: 1},
		paint: paint,
	}
	p := newParser(data)
	var operands []Object
	for {
		tok := p.lx.next()
		switch tok.kind {
		case tokEOF:
			return nil
		case tokErr:
			// Content is best effort; stop at the damage.
			return nil
		case tokKeyword:
			in.op(tok.text, operands, p.lx)
			operands = operands[:0]
		default:
			obj, err := p.fromToken(tok)
			if err != nil {
				return nil
			}
			operands = append(operands, obj)
		}
	}
}

func (in *interp) op(name string, args []Object, lx *lexer) {
	// Inside BT..ET only the state operators matter to us.
	if in.textDepth > 0 {
		switch name {
		case "ET":
			in.textDepth--
		case "BT":
			in.textDepth++
		case "q":
			in.push()
		case "Q":
			in.pop()
		case "cm":
			in.concat(args)
		}
		return
	}

	switch name {
	case "q":
		in.push()
	case "Q":
		in.pop()
	case "cm":
		in.concat(args)
	case "w":
		if len(args) == 1 {
			in.st.lineWidth = num(args[0])
		}

	case "m":
		if len(args) == 2 {
			in.moveTo(transform.Pt(num(args[0]), num(args[1])))
		}
	case "l":
		if len(args) == 2 {
			in.lineTo(transform.Pt(num(args[0]), num(args[1])))
		}
	case "c":
		if len(args) == 6 {
			in.curveTo(
				transform.Pt(num(args[0]), num(args[1])),
				transform.Pt(num(args[2]), num(args[3])),
				transform.Pt(num(args[4]), num(args[5])))
		}
	case "v":
		if len(args) == 4 {
			in.curveTo(in.curUser,
				transform.Pt(num(args[0]), num(args[1])),
				transform.Pt(num(args[2]), num(args[3])))
		}
	case "y":
		if len(args) == 4 {
			end := transform.Pt(num(args[2]), num(args[3]))
			in.curveTo(transform.Pt(num(args[0]), num(args[1])), end, end)
		}
	case "h":
		in.closePath()
	case "re":
		if len(args) == 4 {
			x, y := num(args[0]), num(args[1])
			w, h := num(args[2]), num(args[3])
			in.moveTo(transform.Pt(x, y))
			in.lineTo(transform.Pt(x+w, y))
			in.lineTo(transform.Pt(x+w, y+h))
			in.lineTo(transform.Pt(x, y+h))
			in.closePath()
		}

	case "n":
		in.clearPath()
	case "f", "F", "f*":
		in.fill()
		in.clearPath()
	case "S":
		in.stroke()
		in.clearPath()
	case "s":
		in.closePath()
		in.stroke()
		in.clearPath()
	case "B", "B*":
		in.fill()
		in.stroke()
		in.clearPath()
	case "b", "b*":
		in.closePath()
		in.fill()
		in.stroke()
		in.clearPath()
	case "W", "W*":
		// Clipping is not applied; the path still ends with a paint op
		// that clears it.

	case "g":
		if len(args) == 1 {
			in.st.fill = gray(num(args[0]))
		}
	case "G":
		if len(args) == 1 {
			in.st.stroke = gray(num(args[0]))
		}
	case "rg":
		if len(args) == 3 {
			in.st.fill = rgb{num(args[0]), num(args[1]), num(args[2])}
		}
	case "RG":
		if len(args) == 3 {
			in.st.stroke = rgb{num(args[0]), num(args[1]), num(args[2])}
		}
	case "k":
		if len(args) == 4 {
			in.st.fill = cmyk(num(args[0]), num(args[1]), num(args[2]), num(args[3]))
		}
	case "K":
		if len(args) == 4 {
			in.st.stroke = cmyk(num(args[0]), num(args[1]), num(args[2]), num(args[3]))
		}
	case "sc", "scn":
		if c, ok := componentColor(args); ok {
			in.st.fill = c
		}
	case "SC", "SCN":
		if c, ok := componentColor(args); ok {
			in.st.stroke = c
		}
	case "cs", "CS":
		// Color space selection itself carries no visible change until a
		// color operator follows.

	case "BT":
		in.textDepth++
	case "BI":
		skipInlineImage(lx)
	}
	// Anything else (text placement, XObjects, marked content) is skipped.
}

func componentColor(args []Object) (rgb, bool) {
	var comps []float64
	for _, a := range args {
		switch a.(type) {
		case int64, float64:
			comps = append(comps, num(a))
		}
	}
	switch len(comps) {
	case 1:
		return gray(comps[0]), true
	case 3:
		return rgb{comps[0], comps[1], comps[2]}, true
	case 4:
		return cmyk(comps[0], comps[1], comps[2], comps[3]), true
	}
	return rgb{}, false
}

func (in *interp) push() {
	in.stack = append(in.stack, in.st)
}

func (in *interp) pop() {
	if n := len(in.stack); n > 0 {
		in.st = in.stack[n-1]
		in.stack = in.stack[:n-1]
	}
}

func (in *interp) concat(args []Object) {
	if len(args) != 6 {
		return
	}
	m := transform.Matrix{
		num(args[0]), num(args[1]),
		num(args[2]), num(args[3]),
		num(args[4]), num(args[5]),
	}
	in.st.ctm = m.Multiply(in.st.ctm)
}

func (in *interp) moveTo(p transform.Point) {
	in.startUser, in.curUser = p, p
	dp := in.st.ctm.ApplyPoint(p)
	in.start, in.cur = dp, dp
	in.path.segs = append(in.path.segs, pathSeg{kind: segMove, pts: [3]transform.Point{dp}})
}

func (in *interp) lineTo(p transform.Point) {
	in.curUser = p
	dp := in.st.ctm.ApplyPoint(p)
	in.cur = dp
	in.path.segs = append(in.path.segs, pathSeg{kind: segLine, pts: [3]transform.Point{dp}})
}

func (in *interp) curveTo(c1, c2, end transform.Point) {
	in.curUser = end
	d1 := in.st.ctm.ApplyPoint(c1)
	d2 := in.st.ctm.ApplyPoint(c2)
	de := in.st.ctm.ApplyPoint(end)
	in.cur = de
	in.path.segs = append(in.path.segs, pathSeg{kind: segCube, pts: [3]transform.Point{d1, d2, de}})
}

func (in *interp) closePath() {
	if in.path.empty() {
		return
	}
	in.path.segs = append(in.path.segs, pathSeg{kind: segClose})
	in.cur = in.start
	in.curUser = in.startUser
}

func (in *interp) clearPath() {
	in.path.segs = in.path.segs[:0]
}

func (in *interp) fill() {
	if in.path.empty() || in.paint.fill == nil {
		return
	}
	in.paint.fill(&in.path, in.st.fill)
}

func (in *interp) stroke() {
	if in.path.empty() || in.paint.stroke == nil {
		return
	}
	w := in.st.lineWidth * math.Sqrt(math.Abs(in.st.ctm.Determinant()))
	in.paint.stroke(&in.path, in.st.stroke, w)
}

// skipInlineImage consumes a BI..EI inline image: the parameter dictionary,
// the ID keyword and the binary data up to a whitespace-delimited EI.
func skipInlineImage(lx *lexer) {
	for {
		tok := lx.next()
		if tok.kind == tokEOF {
			return
		}
		if tok.kind == tokKeyword && tok.text == "ID" {
			break
		}
	}
	if lx.pos < len(lx.data) && isSpace(lx.data[lx.pos]) {
		lx.pos++
	}
	for i := lx.pos; i+1 < len(lx.data); i++ {
		if lx.data[i] != 'E' || lx.data[i+1] != 'I' {
			continue
		}
		before := i == 0 || isSpace(lx.data[i-1])
		after := i+2 >= len(lx.data) || isSpace(lx.data[i+2]) || isDelim(lx.data[i+2])
		if before && after {
			lx.pos = i + 2
			return
		}
	}
	lx.pos = len(lx.data)
}
