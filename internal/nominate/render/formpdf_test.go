package render

import (
	"bytes"
	"fmt"
)

// buildFormPDF writes a one page PDF whose AcroForm holds a text field per
// name, each merged with its widget annotation.
func buildFormPDF(names ...string) []byte {
	const firstField = 5
	var refs bytes.Buffer
	for i := range names {
		if i > 0 {
			refs.WriteByte(' ')
		}
		fmt.Fprintf(&refs, "%d 0 R", firstField+i)
	}

	objects := []string{
		fmt.Sprintf("<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [%s] /DR << /Font << /Helv 4 0 R >> >> /DA (/Helv 0 Tf 0 g) >> >>", refs.String()),
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /Helv 4 0 R >> >> /Annots [%s] >>", refs.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, name := range names {
		y := 750 - i*24
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Annot /Subtype /Widget /FT /Tx /T (%s) /Rect [50 %d 400 %d] /P 3 0 R /F 4 /DA (/Helv 10 Tf 0 g) >>",
			name, y, y+18,
		))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
