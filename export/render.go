package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/gogpu/ggedit"
)

// Result is a finished export.
type Result struct {
	Format   Format
	MIMEType string
	Data     []byte

	// Width and Height are the output size: pixels for raster formats,
	// user units for vector ones.
	Width  int
	Height int
}

// Render exports elements synchronously. pdf and any format without a
// registered backend fail with ErrUnsupportedFormat.
func Render(elements []ggedit.Element, opts Options) (*Result, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	if opts.Format == FormatPDF {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	}
	b, err := NewBackend(string(opts.Format))
	if err != nil {
		return nil, err
	}
	wb, ok := b.(WriterBackend)
	if !ok {
		return nil, fmt.Errorf("%w: backend %q cannot write output", ErrUnsupportedFormat, opts.Format)
	}

	doc := Build(elements, opts)
	if err := doc.Playback(wb); err != nil {
		return nil, fmt.Errorf("export: %s: %w", opts.Format, err)
	}
	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("export: %s: %w", opts.Format, err)
	}

	res := &Result{
		Format:   opts.Format,
		MIMEType: opts.Format.MIMEType(),
		Data:     buf.Bytes(),
	}
	if opts.Format.IsVector() {
		res.Width, res.Height = int(opts.Width), int(opts.Height)
	} else {
		res.Width, res.Height = doc.Frame.Pixels()
	}
	return res, nil
}

// EstimateSize returns the byte length of the vector text for elements,
// whatever opts.Format says.
func EstimateSize(elements []ggedit.Element, opts Options) (int, error) {
	opts.Format = FormatSVG
	res, err := Render(elements, opts)
	if err != nil {
		return 0, err
	}
	return len(res.Data), nil
}

// HumanSize formats n bytes the way the export dialog shows it:
// "< 1 KB" below 512 bytes, otherwise the rounded number of kilobytes.
func HumanSize(n int) string {
	kb := (n + 512) / 1024
	if kb < 1 {
		return "< 1 KB"
	}
	return strconv.Itoa(kb) + " KB"
}
