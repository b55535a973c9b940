// Package pdfwriter maintains the numbered marks inside a PDF's native
// annotation layer through pdfcpu. It implements the mark surface the
// numbering controller drives: one FreeText annotation per entity, plus an
// optional Line annotation for the leader tail.
package pdfwriter

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/marcindunin/NapisyTWON/annotation"
	"github.com/marcindunin/NapisyTWON/logging"
)

// rectTolerance is the maximum coordinate distance, in document units, for
// the position-based fallback match when a stored locator is stale.
const rectTolerance = 2.0

// Writer writes and removes marks on one open document context.
type Writer struct {
	ctx *model.Context
}

// NewWriter wraps an open pdfcpu context.
func NewWriter(ctx *model.Context) *Writer {
	return &Writer{ctx: ctx}
}

// Apply creates or replaces the visible mark for an annotation and stores
// the resulting locator on the entity.
func (w *Writer) Apply(a *annotation.Annotation) error {
	if !a.Mark.IsZero() {
		if err := w.Discard(a); err != nil {
			return err
		}
	}

	pageNr := a.Page + 1
	if pageNr < 1 || pageNr > w.ctx.PageCount {
		return fmt.Errorf("page %d out of range (1-%d)", pageNr, w.ctx.PageCount)
	}

	pageDict, _, _, err := w.ctx.PageDict(pageNr, false)
	if err != nil {
		return fmt.Errorf("load page %d: %w", pageNr, err)
	}

	ref, err := w.writeFreeText(a)
	if err != nil {
		return err
	}
	refs := types.Array{ref}
	a.Mark.ObjectNumber = ref.ObjectNumber.Value()

	if a.Style.TailEnabled {
		tailRef, err := w.writeTail(a)
		if err != nil {
			return err
		}
		refs = append(refs, tailRef)
		a.Mark.TailObjectNumber = tailRef.ObjectNumber.Value()
	}

	annots, err := w.pageAnnots(pageDict)
	if err != nil {
		return err
	}
	pageDict["Annots"] = append(annots, refs...)

	a.AppliedToPDF = true
	logging.Logger().Debug("mark written",
		slog.String("label", a.Label),
		slog.Int("page", a.Page),
		slog.Int("obj", a.Mark.ObjectNumber))
	return nil
}

// Discard removes the visible mark for an annotation. It resolves the mark
// by stored object number first, then by the /NM entry carrying the entity
// id, then by rectangle proximity, so a stale locator still finds the right
// dictionary.
func (w *Writer) Discard(a *annotation.Annotation) error {
	pageNr := a.Page + 1
	if pageNr < 1 || pageNr > w.ctx.PageCount {
		return fmt.Errorf("page %d out of range (1-%d)", pageNr, w.ctx.PageCount)
	}

	pageDict, _, _, err := w.ctx.PageDict(pageNr, false)
	if err != nil {
		return fmt.Errorf("load page %d: %w", pageNr, err)
	}

	annots, err := w.pageAnnots(pageDict)
	if err != nil {
		return err
	}

	kept := make(types.Array, 0, len(annots))
	removed := 0
	for _, entry := range annots {
		objNr, d := w.resolveAnnot(entry)
		if d != nil && w.matches(a, objNr, d) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	pageDict["Annots"] = kept

	if removed > 0 {
		logging.Logger().Debug("mark removed",
			slog.String("label", a.Label),
			slog.Int("page", a.Page),
			slog.Int("count", removed))
	}
	a.Mark = annotation.Mark{}
	a.AppliedToPDF = false
	return nil
}

func (w *Writer) writeFreeText(a *annotation.Annotation) (*types.IndirectRef, error) {
	s := a.Style
	x0, y0, x1, y1 := markRect(a)

	fr, fg, fb, err := parseHexColor(s.TextColor)
	if err != nil {
		return nil, fmt.Errorf("text color: %w", err)
	}

	d := types.Dict{
		"Type":     types.Name("Annot"),
		"Subtype":  types.Name("FreeText"),
		"Rect":     types.NewNumberArray(x0, y0, x1, y1),
		"Contents": types.StringLiteral(a.Label),
		"NM":       types.StringLiteral(a.ID),
		"Q":        types.Integer(1), // centered
		"F":        types.Integer(4), // print
		"DA": types.StringLiteral(fmt.Sprintf("/Helv %d Tf %s %s %s rg",
			s.FontSize, num(fr), num(fg), num(fb))),
	}

	if s.BgOpacity > 0 {
		br, bg, bb, err := parseHexColor(s.BgColor)
		if err != nil {
			return nil, fmt.Errorf("background color: %w", err)
		}
		d["C"] = types.NewNumberArray(br, bg, bb)
		if s.BgOpacity < 1.0 {
			d["CA"] = types.Float(s.BgOpacity)
		}
	}

	if s.BorderEnabled {
		d["Border"] = types.NewNumberArray(0, 0, float64(s.BorderWidth))
		d["BS"] = types.Dict{
			"W": types.Integer(s.BorderWidth),
			"S": types.Name("S"),
		}
	}

	return w.ctx.IndRefForNewObject(d)
}

func (w *Writer) writeTail(a *annotation.Annotation) (*types.IndirectRef, error) {
	s := a.Style
	fr, fg, fb, err := parseHexColor(s.TextColor)
	if err != nil {
		return nil, fmt.Errorf("tail color: %w", err)
	}

	x, y := a.X, a.Y
	endY := y - float64(s.TailLength)

	d := types.Dict{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Line"),
		"Rect":    types.NewNumberArray(x-1, endY, x+1, y),
		"L":       types.NewNumberArray(x, y, x, endY),
		"C":       types.NewNumberArray(fr, fg, fb),
		"NM":      types.StringLiteral(a.ID + ".tail"),
		"F":       types.Integer(4),
		"BS": types.Dict{
			"W": types.Integer(s.TailWidth),
		},
	}

	return w.ctx.IndRefForNewObject(d)
}

// pageAnnots returns the page's /Annots entries, resolving an indirect
// reference to the array when needed.
func (w *Writer) pageAnnots(pageDict types.Dict) (types.Array, error) {
	obj, found := pageDict.Find("Annots")
	if !found {
		return types.Array{}, nil
	}

	switch v := obj.(type) {
	case types.Array:
		return v, nil
	case types.IndirectRef, *types.IndirectRef:
		resolved, err := w.ctx.Dereference(obj)
		if err != nil {
			return nil, fmt.Errorf("resolve Annots: %w", err)
		}
		arr, ok := resolved.(types.Array)
		if !ok {
			return nil, fmt.Errorf("Annots is %T, want array", resolved)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("Annots is %T, want array", obj)
	}
}

// resolveAnnot returns the object number (0 for inline dicts) and the
// annotation dictionary for one /Annots entry, or nil when the entry cannot
// be resolved to a dictionary.
func (w *Writer) resolveAnnot(entry types.Object) (int, types.Dict) {
	objNr := 0
	switch v := entry.(type) {
	case *types.IndirectRef:
		objNr = v.ObjectNumber.Value()
	case types.IndirectRef:
		objNr = v.ObjectNumber.Value()
	case types.Dict:
		return 0, v
	}

	resolved, err := w.ctx.Dereference(entry)
	if err != nil {
		return objNr, nil
	}
	d, ok := resolved.(types.Dict)
	if !ok {
		return objNr, nil
	}
	return objNr, d
}

func (w *Writer) matches(a *annotation.Annotation, objNr int, d types.Dict) bool {
	if objNr != 0 && (objNr == a.Mark.ObjectNumber || objNr == a.Mark.TailObjectNumber) {
		return true
	}

	if obj, found := d.Find("NM"); found {
		if name, ok := obj.(types.StringLiteral); ok {
			nm := name.Value()
			if nm == a.ID || nm == a.ID+".tail" {
				return true
			}
		}
	}

	// Stale locator and no identity entry: fall back to the expected
	// rectangle, within tolerance.
	if subtype, found := d.Find("Subtype"); found {
		if sn, ok := subtype.(types.Name); !ok || sn.Value() != "FreeText" {
			return false
		}
	}
	obj, found := d.Find("Rect")
	if !found {
		return false
	}
	resolved, err := w.ctx.Dereference(obj)
	if err != nil {
		return false
	}
	arr, ok := resolved.(types.Array)
	if !ok || len(arr) != 4 {
		return false
	}
	got := make([]float64, 4)
	for i, o := range arr {
		switch n := o.(type) {
		case types.Integer:
			got[i] = float64(n.Value())
		case types.Float:
			got[i] = n.Value()
		default:
			return false
		}
	}
	x0, y0, x1, y1 := markRect(a)
	want := []float64{x0, y0, x1, y1}
	for i := range want {
		diff := got[i] - want[i]
		if diff < -rectTolerance || diff > rectTolerance {
			return false
		}
	}
	return true
}

// markRect computes the mark rectangle from the annotation position and
// style, using a fixed per-character width estimate for the built-in
// Helvetica metrics.
func markRect(a *annotation.Annotation) (x0, y0, x1, y1 float64) {
	s := a.Style
	textWidth := float64(len(a.Label)) * float64(s.FontSize) * 0.6
	textHeight := float64(s.FontSize)
	pad := float64(s.Padding)
	return a.X, a.Y, a.X + textWidth + pad*2, a.Y + textHeight + pad*2
}

func parseHexColor(hex string) (r, g, b float64, err error) {
	s := hex
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("color %q is not in #RRGGBB form", hex)
	}
	var vals [3]float64
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("color %q is not in #RRGGBB form", hex)
		}
		vals[i] = float64(n) / 255
	}
	return vals[0], vals[1], vals[2], nil
}

// num formats a color component compactly for a DA string.
func num(f float64) string {
	return strconv.FormatFloat(f, 'g', 4, 64)
}
