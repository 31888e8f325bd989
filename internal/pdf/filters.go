package pdf

import (
	"bytes"
	stdlzw "compress/lzw"
	"compress/zlib"
	"encoding/ascii85"
	"encoding/hex"
	"fmt"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"
)

// decodeStream applies the stream's filter chain to its raw data.
func decodeStream(s *Stream) ([]byte, error) {
	filters, parms := filterChain(s.Dict)
	data := s.Raw
	for i, name := range filters {
		var parm Dict
		if i < len(parms) {
			parm = parms[i]
		}
		var err error
		data, err = applyFilter(name, data, parm)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return data, nil
}

func filterChain(d Dict) ([]Name, []Dict) {
	var filters []Name
	switch f := d["Filter"].(type) {
	case Name:
		filters = []Name{f}
	case Array:
		for _, v := range f {
			if n, ok := v.(Name); ok {
				filters = append(filters, n)
			}
		}
	}

	var parms []Dict
	switch p := d["DecodeParms"].(type) {
	case Dict:
		parms = []Dict{p}
	case Array:
		for _, v := range p {
			dp, _ := v.(Dict)
			parms = append(parms, dp)
		}
	}
	return filters, parms
}

func applyFilter(name Name, data []byte, parm Dict) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil && len(out) == 0 {
			return nil, err
		}
		return applyPredictor(out, parm)
	case "LZWDecode", "LZW":
		early := int64(1)
		if parm != nil {
			if v, ok := parm.Int("EarlyChange"); ok {
				early = v
			}
		}
		var r io.ReadCloser
		if early != 0 {
			r = tifflzw.NewReader(bytes.NewReader(data), tifflzw.MSB, 8)
		} else {
			r = stdlzw.NewReader(bytes.NewReader(data), stdlzw.MSB, 8)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil && len(out) == 0 {
			return nil, err
		}
		return applyPredictor(out, parm)
	case "ASCIIHexDecode", "AHx":
		return decodeASCIIHex(data)
	case "ASCII85Decode", "A85":
		return decodeASCII85(data)
	default:
		return nil, fmt.Errorf("unsupported filter")
	}
}

func decodeASCIIHex(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	for _, c := range data {
		switch {
		case c == '>':
			goto done
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0:
		default:
			buf.WriteByte(c)
		}
	}
done:
	// An odd final digit is padded with zero.
	if buf.Len()%2 == 1 {
		buf.WriteByte('0')
	}
	out := make([]byte, buf.Len()/2)
	if _, err := hex.Decode(out, buf.Bytes()); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeASCII85(data []byte) ([]byte, error) {
	if i := bytes.Index(data, []byte("~>")); i >= 0 {
		data = data[:i]
	}
	data = bytes.TrimLeft(data, " \t\r\n")
	r := ascii85.NewDecoder(bytes.NewReader(data))
	return io.ReadAll(r)
}

// applyPredictor undoes the PNG row predictors (values 10 and up). The
// TIFF predictor and /Predictor 1 leave the data as is.
func applyPredictor(data []byte, parm Dict) ([]byte, error) {
	if parm == nil {
		return data, nil
	}
	pred, ok := parm.Int("Predictor")
	if !ok || pred < 10 {
		return data, nil
	}
	columns := int64(1)
	if v, ok := parm.Int("Columns"); ok {
		columns = v
	}
	colors := int64(1)
	if v, ok := parm.Int("Colors"); ok {
		colors = v
	}
	bpc := int64(8)
	if v, ok := parm.Int("BitsPerComponent"); ok {
		bpc = v
	}
	bpp := int(colors*bpc+7) / 8
	rowLen := int(columns*colors*bpc+7) / 8
	if rowLen <= 0 || bpp <= 0 {
		return nil, fmt.Errorf("invalid predictor parameters")
	}

	var out bytes.Buffer
	prev := make([]byte, rowLen)
	for pos := 0; pos < len(data); pos += 1 + rowLen {
		ft := data[pos]
		end := pos + 1 + rowLen
		if end > len(data) {
			end = len(data)
		}
		row := make([]byte, rowLen)
		copy(row, data[pos+1:end])
		switch ft {
		case 0: // None
		case 1: // Sub
			for i := bpp; i < rowLen; i++ {
				row[i] += row[i-bpp]
			}
		case 2: // Up
			for i := 0; i < rowLen; i++ {
				row[i] += prev[i]
			}
		case 3: // Average
			for i := 0; i < rowLen; i++ {
				var left byte
				if i >= bpp {
					left = row[i-bpp]
				}
				row[i] += byte((int(left) + int(prev[i])) / 2)
			}
		case 4: // Paeth
			for i := 0; i < rowLen; i++ {
				var left, upLeft byte
				if i >= bpp {
					left = row[i-bpp]
					upLeft = prev[i-bpp]
				}
				row[i] += paeth(left, prev[i], upLeft)
			}
		default:
			return nil, fmt.Errorf("unknown predictor row filter %d", ft)
		}
		out.Write(row)
		prev = row
	}
	return out.Bytes(), nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
