// Package napisytwon numbers PDF documents with sequential annotation
// labels, the way building-plan and survey drawings are marked up: each
// mark carries a compound label (whole number, optional sub-number,
// optional trailing "p" marker for an empty slide) and is written into the
// document's native annotation layer.
//
// The engine keeps one Store of annotations per open document, resolves
// duplicate labels through an explicit three-way policy, renumbers
// sequences on insert and delete, detects gaps, and records every mutation
// in a bounded undo/redo log.
//
// Example:
//
//	doc, err := napisytwon.Open("plan.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
//
//	s := doc.Session()
//	s.InsertNext(0, 120, 260, napisytwon.DefaultStyle())
//	s.InsertNext(0, 300, 410, napisytwon.DefaultStyle())
//
//	if ok, msg := s.ValidateSequence(); !ok {
//	    fmt.Println(msg)
//	}
//	doc.Save("plan-numbered.pdf")
package napisytwon

import (
	"github.com/marcindunin/NapisyTWON/annotation"
	"github.com/marcindunin/NapisyTWON/internal/application/numbering"
)

// Re-exported engine types, so most callers only import this package.
type (
	Annotation        = annotation.Annotation
	Style             = annotation.Style
	Catalog           = annotation.Catalog
	Store             = annotation.Store
	LabelChange       = annotation.LabelChange
	Mark              = annotation.Mark
	InvalidLabelError = annotation.InvalidLabelError
	DuplicateChoice   = numbering.DuplicateChoice
)

// Duplicate-label resolution choices (see Session.Insert and
// Session.Relabel).
const (
	DuplicateCancel      = numbering.DuplicateCancel
	DuplicateAutoAdvance = numbering.DuplicateAutoAdvance
	DuplicateUseSub      = numbering.DuplicateUseSub
)

// ErrNotFound is returned by Session operations naming an unknown
// annotation id.
var ErrNotFound = numbering.ErrNotFound

// Re-exported label grammar helpers.
var (
	ParseLabel     = annotation.ParseLabel
	FormatLabel    = annotation.FormatLabel
	CompareLabels  = annotation.CompareLabels
	SortKey        = annotation.SortKey
	HasEmptyMarker = annotation.HasEmptyMarker
	DefaultStyle   = annotation.DefaultStyle
	NewCatalog     = annotation.NewCatalog
)
