// Package pdftest собирает небольшие корректные PDF документы для тестов
package pdftest

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// OriginalText - текст, который стоит на каждой странице собранного документа
const OriginalText = "Original content"

// Size - ширина и высота страницы в пунктах
type Size struct {
	Width  float64
	Height float64
}

var (
	A4          = Size{Width: 595, Height: 842}
	A4Landscape = Size{Width: 842, Height: 595}
	Letter      = Size{Width: 612, Height: 792}
)

// Build собирает документ со страницами заданных размеров
func Build(sizes ...Size) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(sizes))
	for i := range sizes {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(sizes)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	content := fmt.Sprintf("BT /F1 12 Tf 72 72 Td (%s) Tj ET", OriginalText)
	for i, size := range sizes {
		obj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			size.Width, size.Height, 5+2*i,
		))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

// FormContents возвращает для каждой страницы распакованное содержимое
// form XObject из её ресурсов. Элемент 0 соответствует первой странице
func FormContents(document []byte) ([]string, error) {
	ctx, err := api.ReadContext(bytes.NewReader(document), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}

	pages := make([]string, ctx.PageCount)
	for i := range pages {
		pageDict, _, _, err := ctx.PageDict(i+1, true)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		obj, ok := pageDict.Find("Resources")
		if !ok {
			continue
		}
		resources, err := ctx.DereferenceDict(obj)
		if err != nil {
			return nil, fmt.Errorf("page %d resources: %w", i+1, err)
		}
		obj, ok = resources.Find("XObject")
		if !ok {
			continue
		}
		xobjects, err := ctx.DereferenceDict(obj)
		if err != nil {
			return nil, fmt.Errorf("page %d xobjects: %w", i+1, err)
		}

		names := make([]string, 0, len(xobjects))
		for name := range xobjects {
			names = append(names, name)
		}
		sort.Strings(names)

		var sb strings.Builder
		for _, name := range names {
			sd, _, err := ctx.DereferenceStreamDict(xobjects[name])
			if err != nil {
				return nil, fmt.Errorf("page %d form %s: %w", i+1, name, err)
			}
			if sd == nil || sd.Subtype() == nil || *sd.Subtype() != "Form" {
				continue
			}
			if err := sd.Decode(); err != nil {
				return nil, fmt.Errorf("page %d form %s: decode: %w", i+1, name, err)
			}
			sb.Write(sd.Content)
			sb.WriteByte('\n')
		}
		pages[i] = sb.String()
	}

	return pages, nil
}
