package annotation

import "github.com/google/uuid"

// Mark is the locator for the rendered mark of an annotation inside the PDF
// annotation layer. The engine never interprets it; it only carries it
// between the store and the PDF-edit surface, which uses the object numbers
// to find the dictionaries it wrote earlier.
type Mark struct {
	ObjectNumber     int `json:"pdf_annot_xref"`
	TailObjectNumber int `json:"pdf_tail_xref"`
}

// IsZero reports whether no mark has been written for the entity yet.
func (m Mark) IsZero() bool {
	return m.ObjectNumber == 0 && m.TailObjectNumber == 0
}

// Annotation is one placed numbered mark.
//
// The id is assigned on construction and stays stable across renumbering,
// moves and undo/redo. Coordinates are in document space, not screen
// pixels. The label keeps its exact display form, including a trailing "p"
// marker if present.
type Annotation struct {
	ID           string  `json:"id"`
	Page         int     `json:"page"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Label        string  `json:"number"`
	Style        Style   `json:"style"`
	Mark         Mark    `json:"mark"`
	AppliedToPDF bool    `json:"applied_to_pdf"`
}

// New creates an annotation with a fresh id and its own copy of the style.
func New(page int, x, y float64, label string, style Style) *Annotation {
	return &Annotation{
		ID:    uuid.NewString(),
		Page:  page,
		X:     x,
		Y:     y,
		Label: label,
		Style: style.Clone(),
	}
}

// SortKey returns the (main, sub) ordering key of the annotation's label.
func (a *Annotation) SortKey() (main, sub int) {
	return SortKey(a.Label)
}

// Clone returns a duplicate of the annotation with a fresh id and no mark.
// The duplicate is not yet applied to any PDF.
func (a *Annotation) Clone() *Annotation {
	return &Annotation{
		ID:    uuid.NewString(),
		Page:  a.Page,
		X:     a.X,
		Y:     a.Y,
		Label: a.Label,
		Style: a.Style.Clone(),
	}
}
