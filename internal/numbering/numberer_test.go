package numbering

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/Freeeeeet/pdfnumber_bot/internal/numbering/pdftest"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDims(t *testing.T, document []byte) []types.Dim {
	t.Helper()
	ctx, err := api.ReadContext(bytes.NewReader(document), model.NewDefaultConfiguration())
	require.NoError(t, err)
	require.NoError(t, api.ValidateContext(ctx))
	require.NoError(t, ctx.EnsurePageCount())
	dims, err := ctx.PageDims()
	require.NoError(t, err)
	return dims
}

var streamRe = regexp.MustCompile(`(?s)stream\r?\n(.*?)\r?\nendstream`)

// decodedStreams возвращает содержимое всех потоков документа,
// flate-потоки распаковываются
func decodedStreams(document []byte) string {
	var sb strings.Builder
	for _, m := range streamRe.FindAllSubmatch(document, -1) {
		r, err := zlib.NewReader(bytes.NewReader(m[1]))
		if err != nil {
			sb.Write(m[1])
			sb.WriteByte('\n')
			continue
		}
		data, _ := io.ReadAll(r)
		r.Close()
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ============================================================================
// STAMP PLANNING
// ============================================================================

func TestPlanStamps(t *testing.T) {
	n := New(DefaultOptions())

	stamps := n.PlanStamps(3)

	require.Len(t, stamps, 3)
	for i, s := range stamps {
		assert.Equal(t, i+1, s.Page)
		assert.Equal(t, fmt.Sprint(i+1), s.Text)
	}
	assert.Empty(t, n.PlanStamps(0))
}

func TestDescription_FixedOffsetFromTopLeft(t *testing.T) {
	n := New(Options{OffsetX: 100, OffsetY: 100})

	desc := n.description()
	assert.Contains(t, desc, "fontname:Helvetica-Bold")
	assert.Contains(t, desc, "points:20")
	assert.Contains(t, desc, "position:tl")
	assert.Contains(t, desc, "offset:100 -100")
	assert.Contains(t, desc, "fillcolor:#000000")
}

// ============================================================================
// NUMBER PAGES
// ============================================================================

func TestNumberPages_KeepsCountOrderAndGeometry(t *testing.T) {
	sizes := []pdftest.Size{pdftest.A4, pdftest.A4Landscape, {Width: 300, Height: 400}}
	input := pdftest.Build(sizes...)

	output, err := New(DefaultOptions()).NumberPages(input)
	require.NoError(t, err)
	require.NotEmpty(t, output)
	assert.True(t, bytes.HasPrefix(output, []byte("%PDF-")))

	dims := readDims(t, output)
	require.Len(t, dims, len(sizes))
	for i, size := range sizes {
		assert.InDelta(t, size.Width, dims[i].Width, 0.001, "page %d width", i+1)
		assert.InDelta(t, size.Height, dims[i].Height, 0.001, "page %d height", i+1)
	}
}

func TestNumberPages_StampsEveryPage(t *testing.T) {
	input := pdftest.Build(pdftest.A4, pdftest.A4, pdftest.A4)

	output, err := New(DefaultOptions()).NumberPages(input)
	require.NoError(t, err)

	content := decodedStreams(output)
	assert.NotContains(t, content, "(4)")
	// исходное содержимое страниц на месте
	assert.Contains(t, content, "("+pdftest.OriginalText+")")

	forms, err := pdftest.FormContents(output)
	require.NoError(t, err)
	require.Len(t, forms, 3)
	for i, form := range forms {
		page := i + 1
		assert.Contains(t, form, fmt.Sprintf("(%d)", page), "page %d", page)
		for other := 1; other <= len(forms); other++ {
			if other != page {
				assert.NotContains(t, form, fmt.Sprintf("(%d)", other), "page %d", page)
			}
		}
	}
}

func TestNumberPages_StampIsBlack(t *testing.T) {
	output, err := New(DefaultOptions()).NumberPages(pdftest.Build(pdftest.A4))
	require.NoError(t, err)

	forms, err := pdftest.FormContents(output)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Contains(t, forms[0], "0.00 0.00 0.00 rg")
	assert.NotContains(t, forms[0], "0.50 0.50 0.50 rg")
}

func TestNumberPages_IsRepeatable(t *testing.T) {
	input := pdftest.Build(pdftest.Letter)
	n := New(DefaultOptions())

	first, err := n.NumberPages(input)
	require.NoError(t, err)
	second, err := n.NumberPages(input)
	require.NoError(t, err)

	assert.Len(t, readDims(t, first), 1)
	assert.Len(t, readDims(t, second), 1)
}

func TestNumberPages_RejectsBadInput(t *testing.T) {
	n := New(DefaultOptions())

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"plain text", []byte("definitely not a pdf")},
		{"png header", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")},
		{"pdf header only", []byte("%PDF-1.4\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := n.NumberPages(tt.input)
			assert.ErrorIs(t, err, ErrDocumentParse)
			assert.Nil(t, out)
		})
	}
}

func TestNumberPages_RejectsEncrypted(t *testing.T) {
	n := New(DefaultOptions())
	input := pdftest.Build(pdftest.A4)

	conf := model.NewDefaultConfiguration()
	conf.UserPW = "user-secret"
	conf.OwnerPW = "owner-secret"

	var encrypted bytes.Buffer
	require.NoError(t, api.Encrypt(bytes.NewReader(input), &encrypted, conf))

	out, err := n.NumberPages(encrypted.Bytes())
	assert.ErrorIs(t, err, ErrDocumentParse)
	assert.Nil(t, out)
}
