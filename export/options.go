package export

import (
	"fmt"
	"math"
	"strings"
)

// Format is an output format name.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"

	// FormatPDF is offered by the export dialog but has no backend.
	FormatPDF Format = "pdf"
)

// ParseFormat normalizes s ("PNG", ".jpg") to a known Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatSVG, FormatPNG, FormatJPG, FormatJPEG, FormatBMP, FormatTIFF, FormatPDF:
		return f, nil
	case "tif":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// IsVector reports whether f produces text output.
func (f Format) IsVector() bool { return f == FormatSVG }

// MIMEType returns the media type of f.
func (f Format) MIMEType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJPG, FormatJPEG:
		return "image/jpeg"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Quality is the raster quality preset.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// ParseQuality validates a quality preset name.
func ParseQuality(s string) (Quality, error) {
	switch q := Quality(strings.ToLower(s)); q {
	case QualityLow, QualityMedium, QualityHigh:
		return q, nil
	}
	return "", fmt.Errorf("export: unknown quality %q", s)
}

// Factor returns the encoder quality in [0, 1]: 0.6, 0.8 or 0.95.
// Unknown values count as high.
func (q Quality) Factor() float64 {
	switch q {
	case QualityLow:
		return 0.6
	case QualityMedium:
		return 0.8
	}
	return 0.95
}

// JPEG returns the quality on the 1-100 scale used by image/jpeg.
func (q Quality) JPEG() int {
	return int(q.Factor()*100 + 0.5)
}

// DefaultBackground is the background color used when none is given.
const DefaultBackground = "#FFFFFF"

// Options configures an export.
type Options struct {
	Format            Format  `json:"format" yaml:"format"`
	Width             float64 `json:"width" yaml:"width"`
	Height            float64 `json:"height" yaml:"height"`
	IncludeBackground bool    `json:"includeBackground" yaml:"include_background"`
	Background        string  `json:"background,omitempty" yaml:"background"`
	Scale             float64 `json:"scale" yaml:"scale"`
	Quality           Quality `json:"quality" yaml:"quality"`

	// Grid, when positive, draws preview grid lines at that spacing.
	Grid float64 `json:"grid,omitempty" yaml:"-"`
	// Selected, when set, draws the selection indicator around that element.
	Selected string `json:"selected,omitempty" yaml:"-"`
}

// DefaultOptions returns an 800×600 SVG export on a white background at
// scale 1 and high quality.
func DefaultOptions() Options {
	return Options{
		Format:            FormatSVG,
		Width:             800,
		Height:            600,
		IncludeBackground: true,
		Background:        DefaultBackground,
		Scale:             1,
		Quality:           QualityHigh,
	}
}

// Export limits. Width and height are in canvas units before scaling.
const (
	MaxSize  = 4000
	MinScale = 0.5
	MaxScale = 3
)

// Validate reports whether Render would accept o.
func (o Options) Validate() error {
	_, err := o.normalize()
	return err
}

// normalize fills defaults and rejects unusable sizes. A zero scale means 1.
func (o Options) normalize() (Options, error) {
	if !(o.Width > 0 && o.Width <= MaxSize) || !(o.Height > 0 && o.Height <= MaxSize) {
		return o, fmt.Errorf("%w: size %vx%v outside 1..%d", ErrInvalidOptions, o.Width, o.Height, MaxSize)
	}
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if math.IsNaN(o.Scale) || o.Scale < MinScale || o.Scale > MaxScale {
		return o, fmt.Errorf("%w: scale %v outside %v..%v", ErrInvalidOptions, o.Scale, MinScale, MaxScale)
	}
	if o.Quality == "" {
		o.Quality = QualityHigh
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	return o, nil
}
