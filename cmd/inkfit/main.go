// Command inkfit fits freehand strokes with cubic Béziers.
//
// It reads a JSON array of strokes, each an array of [x, y] samples in
// overlay coordinates, from a file or standard input. The strokes are drawn
// into one ink annotation whose export record is printed as JSON. The
// annotation can additionally be rendered to PNG and PDF.
//
//	inkfit [-tolerance 30] [-png out.png] [-pdf out.pdf] [-width W -height H] strokes.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"honnef.co/go/inkedit"
	"honnef.co/go/inkedit/curve"
	"honnef.co/go/inkedit/export"
	"honnef.co/go/inkedit/render"
	"honnef.co/go/inkedit/session"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("inkfit: ")
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("inkfit", flag.ContinueOnError)
	var (
		tolerance = fs.Float64("tolerance", session.DefaultTolerance, "maximum squared distance between a sample and the curve")
		width     = fs.Float64("width", 612, "page width in points")
		height    = fs.Float64("height", 792, "page height in points")
		thickness = fs.Float64("thickness", session.DefaultThickness, "line width")
		color     = fs.String("color", session.DefaultColor, "stroke color as #rrggbb")
		pngPath   = fs.String("png", "", "write a PNG rendering to `file`")
		pdfPath   = fs.String("pdf", "", "write a PDF rendering to `file`")
		verbose   = fs.Bool("v", false, "log fitting decisions to standard error")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *verbose {
		inkedit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer inkedit.SetLogger(nil)
	}

	in := stdin
	if name := fs.Arg(0); name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	var strokes [][][2]float64
	if err := json.NewDecoder(in).Decode(&strokes); err != nil {
		return fmt.Errorf("reading strokes: %w", err)
	}

	c := session.NewCoordinator(session.WithTolerance(*tolerance))
	if err := c.SetParam(session.InkThickness, *thickness); err != nil {
		return err
	}
	if err := c.SetParam(session.InkColor, *color); err != nil {
		return err
	}
	ink := c.NewInk(0, curve.Pt(0, 0))
	ink.SetBounds(curve.Rect{X0: 0, Y0: 0, X1: *width, Y1: *height})
	for i, samples := range strokes {
		if len(samples) == 0 {
			continue
		}
		if err := drawStroke(ink, samples); err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
	}
	c.DeactivateCurrent()
	if ink.State() == session.Removed {
		return errors.New("no stroke could be fitted")
	}

	page := export.Page{Width: *width, Height: *height}
	rec, err := export.Ink(ink.Geometry(), page)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "\t")
	if err := enc.Encode(rec); err != nil {
		return err
	}

	if *pngPath != "" {
		if err := writePNG(*pngPath, ink, int(*width), int(*height)); err != nil {
			return err
		}
	}
	if *pdfPath != "" {
		if err := writePDF(*pdfPath, export.Document{Pages: []export.Page{page}, Ink: []export.InkRecord{rec}}); err != nil {
			return err
		}
	}
	return nil
}

func drawStroke(ink *session.Ink, samples [][2]float64) error {
	pt := func(s [2]float64) curve.Point { return curve.Pt(s[0], s[1]) }
	if err := ink.BeginStroke(pt(samples[0])); err != nil {
		return err
	}
	for i := 1; i < len(samples)-1; i++ {
		if err := ink.ExtendStroke(pt(samples[i])); err != nil {
			return err
		}
	}
	added, err := ink.EndStroke(pt(samples[len(samples)-1]))
	if err != nil {
		return err
	}
	if !added {
		log.Printf("dropped stroke with %d samples", len(samples))
	}
	return nil
}

func writePNG(path string, ink *session.Ink, width, height int) error {
	cv := render.NewCanvas(width, height)
	defer cv.Close()
	if err := cv.Draw(ink); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := cv.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writePDF(path string, doc export.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WritePDF(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
