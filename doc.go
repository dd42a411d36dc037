// Package inkedit is the root of a small annotation-editing core: freehand
// ink strokes and text boxes placed on an overlay above a rendered page, with
// every structural change undoable.
//
// The work is split over a handful of packages:
//
//   - [honnef.co/go/inkedit/curve] turns noisy pointer samples into a chain
//     of cubic Béziers within a bounded error (see curve.Fit).
//   - [honnef.co/go/inkedit/history] is a capacity-bounded undo/redo log of
//     reversible operations that can coalesce rapid repeated edits.
//   - [honnef.co/go/inkedit/session] holds the editor sessions and the
//     coordinator that owns their registry, focus, selection and history.
//   - [honnef.co/go/inkedit/render] draws sessions with gogpu/gg and maps
//     them to rotated page boxes.
//   - [honnef.co/go/inkedit/export] produces page-space geometry and PDFs.
//
// This package itself only carries the shared logger; see [SetLogger].
//
// Everything except the logger is single-threaded: a Coordinator and the
// sessions it owns must be used from one goroutine.
package inkedit
