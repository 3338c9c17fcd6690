// Package numbering ставит порядковые номера страниц на PDF документ.
//
// Для каждой страницы строится отдельный текстовый штамп с номером
// (начиная с 1), который накладывается поверх исходного содержимого.
// Геометрия страниц читается из документа постранично, размеры страниц
// в результате не меняются.
package numbering

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// OutputFileName имя файла, под которым пользователю возвращается результат
const OutputFileName = "numbered.pdf"

// ErrDocumentParse возвращается для не-PDF, повреждённых и зашифрованных документов
var ErrDocumentParse = errors.New("document parse error")

// Options параметры штампа. Смещения отсчитываются от левого и верхнего края
// страницы в пунктах и одинаковы для всех страниц
type Options struct {
	FontName string
	FontSize int
	OffsetX  float64
	OffsetY  float64
}

// DefaultOptions - полужирный Helvetica 20pt в 100pt от левого и верхнего края
func DefaultOptions() Options {
	return Options{
		FontName: "Helvetica-Bold",
		FontSize: 20,
		OffsetX:  100,
		OffsetY:  100,
	}
}

// Stamp описывает штамп одной страницы
type Stamp struct {
	Page int
	Text string
}

// Numberer нумерует страницы PDF. Безопасен для конкурентного использования:
// конфигурация pdfcpu создаётся на каждый вызов
type Numberer struct {
	opts Options
}

var disableConfigDir sync.Once

// New создаёт Numberer
func New(opts Options) *Numberer {
	// pdfcpu по умолчанию пишет конфиг в домашний каталог пользователя
	disableConfigDir.Do(api.DisableConfigDir)

	defaults := DefaultOptions()
	if opts.FontName == "" {
		opts.FontName = defaults.FontName
	}
	if opts.FontSize <= 0 {
		opts.FontSize = defaults.FontSize
	}
	return &Numberer{opts: opts}
}

// PlanStamps строит штампы для документа из pageCount страниц:
// страница i получает номер i
func (n *Numberer) PlanStamps(pageCount int) []Stamp {
	stamps := make([]Stamp, pageCount)
	for i := range stamps {
		stamps[i] = Stamp{
			Page: i + 1,
			Text: strconv.Itoa(i + 1),
		}
	}
	return stamps
}

// description возвращает описание штампа в формате pdfcpu
func (n *Numberer) description() string {
	return fmt.Sprintf(
		"fontname:%s, points:%d, fillcolor:#000000, position:tl, offset:%s %s, scalefactor:1 abs, rotation:0, opacity:1",
		n.opts.FontName,
		n.opts.FontSize,
		strconv.FormatFloat(n.opts.OffsetX, 'f', -1, 64),
		strconv.FormatFloat(-n.opts.OffsetY, 'f', -1, 64),
	)
}

// NumberPages возвращает новый документ, где на каждой странице стоит её номер.
// Количество и порядок страниц сохраняются
func (n *Numberer) NumberPages(document []byte) ([]byte, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrDocumentParse)
	}

	conf := model.NewDefaultConfiguration()

	ctx, err := api.ReadContext(bytes.NewReader(document), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrDocumentParse, err)
	}
	if ctx.Encrypt != nil {
		return nil, fmt.Errorf("%w: encrypted documents are not supported", ErrDocumentParse)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: validate: %w", ErrDocumentParse, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: page count: %w", ErrDocumentParse, err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: page geometry: %w", ErrDocumentParse, err)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrDocumentParse)
	}

	desc := n.description()
	stamps := make(map[int]*model.Watermark, len(dims))
	for _, stamp := range n.PlanStamps(len(dims)) {
		wm, err := pdfcpu.ParseTextWatermarkDetails(stamp.Text, desc, true, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("build stamp for page %d: %w", stamp.Page, err)
		}
		stamps[stamp.Page] = wm
	}

	var out bytes.Buffer
	if err := api.AddWatermarksMap(bytes.NewReader(document), &out, stamps, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("%w: stamp pages: %w", ErrDocumentParse, err)
	}

	return out.Bytes(), nil
}
