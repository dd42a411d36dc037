package render

import (
	"fmt"
	"image"
	"io"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"honnef.co/go/inkedit"
	"honnef.co/go/inkedit/curve"
	"honnef.co/go/inkedit/session"
)

// Option configures a Canvas during creation.
type Option func(*options)

type options struct {
	background string
	transform  curve.Affine
	fontPath   string
	lineHeight float64
}

func defaultOptions() options {
	return options{
		background: "#ffffff",
		transform:  curve.Identity,
		lineHeight: 1.2,
	}
}

// WithBackground sets the color, as "#rrggbb", that the canvas is cleared
// to.
func WithBackground(hex string) Option {
	return func(o *options) {
		o.background = hex
	}
}

// WithTransform sets the mapping from overlay coordinates to canvas pixels.
// Line widths and font sizes scale with it.
func WithTransform(m curve.Affine) Option {
	return func(o *options) {
		o.transform = m
	}
}

// WithFont sets the TrueType or OpenType font that text boxes are drawn
// with. Without a font, text boxes are drawn as dashed outlines.
func WithFont(path string) Option {
	return func(o *options) {
		o.fontPath = path
	}
}

// Canvas rasterizes sessions onto an image.
type Canvas struct {
	ctx  *gg.Context
	opts options
}

// NewCanvas returns a canvas of the given size in pixels, cleared to its
// background color.
func NewCanvas(width, height int, opts ...Option) *Canvas {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	cv := &Canvas{
		ctx:  gg.NewContext(width, height),
		opts: o,
	}
	cv.Clear()
	return cv
}

// Clear fills the canvas with its background color.
func (cv *Canvas) Clear() {
	cv.ctx.ClearWithColor(gg.Hex(cv.opts.background))
}

// scale is the factor by which the canvas transform changes lengths.
func (cv *Canvas) scale() float64 {
	return math.Sqrt(math.Abs(cv.opts.transform.Determinant()))
}

// Draw draws the sessions in order.
func (cv *Canvas) Draw(ss ...session.Session) error {
	for _, s := range ss {
		var err error
		switch s := s.(type) {
		case *session.Ink:
			err = cv.drawInk(s)
		case *session.FreeText:
			err = cv.drawFreeText(s)
		default:
			err = fmt.Errorf("render: unsupported session %T", s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (cv *Canvas) drawInk(s *session.Ink) error {
	ctx := cv.ctx
	m := cv.opts.transform
	width := s.Thickness() * cv.scale()
	ctx.SetHexColor(s.Color())
	ctx.SetLineWidth(width)
	ctx.SetLineCap(gg.LineCapRound)
	ctx.SetLineJoin(gg.LineJoinRound)

	for _, fc := range s.Strokes() {
		if isDot(fc) {
			// gg does not cap zero length subpaths.
			pt := fc.Start().Transform(m)
			ctx.DrawCircle(pt.X, pt.Y, width/2)
			if err := ctx.Fill(); err != nil {
				return err
			}
			continue
		}
		appendPath(ctx, Path(fc, m))
		if err := ctx.Stroke(); err != nil {
			return err
		}
	}
	inkedit.Logger().Debug("render: ink drawn", "session", s.ID(), "strokes", len(s.Strokes()))
	return nil
}

func (cv *Canvas) drawFreeText(s *session.FreeText) error {
	ctx := cv.ctx
	m := cv.opts.transform
	ctx.SetHexColor(s.Color())

	if cv.opts.fontPath == "" {
		box := m.TransformRectBoundingBox(s.BoundingBox())
		if box.IsEmpty() {
			return nil
		}
		ctx.SetLineWidth(1)
		ctx.SetDash(3, 3)
		ctx.DrawRectangle(box.X0, box.Y0, box.Width(), box.Height())
		err := ctx.Stroke()
		ctx.ClearDash()
		return err
	}

	size := s.FontSize() * cv.scale()
	if err := ctx.LoadFontFace(cv.opts.fontPath, size); err != nil {
		return fmt.Errorf("render: loading font: %w", err)
	}
	origin := s.Origin().Transform(m)
	for i, line := range strings.Split(s.Text(), "\n") {
		// Origin is the top of the box, DrawString wants a baseline.
		y := origin.Y + size + float64(i)*size*cv.opts.lineHeight
		ctx.DrawString(line, origin.X, y)
	}
	return nil
}

func isDot(fc curve.FittedCurve) bool {
	bbox := fc.BoundingBox()
	return bbox.Width() == 0 && bbox.Height() == 0
}

func appendPath(ctx *gg.Context, p *gg.Path) {
	ctx.ClearPath()
	for _, el := range p.Elements() {
		switch el := el.(type) {
		case gg.MoveTo:
			ctx.MoveTo(el.Point.X, el.Point.Y)
		case gg.LineTo:
			ctx.LineTo(el.Point.X, el.Point.Y)
		case gg.CubicTo:
			ctx.CubicTo(el.Control1.X, el.Control1.Y, el.Control2.X, el.Control2.Y, el.Point.X, el.Point.Y)
		case gg.Close:
			ctx.ClosePath()
		}
	}
}

// Image returns the canvas contents.
func (cv *Canvas) Image() image.Image {
	return cv.ctx.Image()
}

// EncodePNG writes the canvas contents to w in PNG format.
func (cv *Canvas) EncodePNG(w io.Writer) error {
	return cv.ctx.EncodePNG(w)
}

// Close releases the canvas' drawing context.
func (cv *Canvas) Close() error {
	return cv.ctx.Close()
}
