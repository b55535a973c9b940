package napisytwon

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/marcindunin/NapisyTWON/history"
	"github.com/marcindunin/NapisyTWON/internal/application/numbering"
	"github.com/marcindunin/NapisyTWON/internal/pdfwriter"
)

// Options configures an opened document.
type Options struct {
	// HistoryLimit is the maximum undo depth. Zero or less selects the
	// default.
	HistoryLimit int

	// SkipValidation disables pdfcpu's structural validation of the
	// opened file. Validation is on by default.
	SkipValidation bool
}

// DefaultOptions returns the options Open uses.
func DefaultOptions() *Options {
	return &Options{HistoryLimit: history.DefaultLimit}
}

// Document represents an opened PDF document together with its annotation
// session.
//
// Example:
//
//	doc, err := napisytwon.Open("plan.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
//
//	fmt.Printf("Pages: %d\n", doc.PageCount())
type Document struct {
	ctx     *model.Context
	path    string
	session *Session
}

// Open opens a PDF file for annotation with default options.
func Open(path string) (*Document, error) {
	return OpenWithOptions(path, nil)
}

// OpenWithOptions opens a PDF file for annotation.
func OpenWithOptions(path string, opts *Options) (*Document, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("napisytwon: failed to read %s: %w", path, err)
	}
	if !opts.SkipValidation {
		if err := api.ValidateContext(ctx); err != nil {
			return nil, fmt.Errorf("napisytwon: invalid PDF %s: %w", path, err)
		}
	}

	d := &Document{ctx: ctx, path: path}
	ctrl := numbering.NewController(pdfwriter.NewWriter(ctx), opts.HistoryLimit)
	d.session = &Session{ctrl: ctrl}
	return d, nil
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the total number of pages in the document.
func (d *Document) PageCount() int {
	if d.ctx == nil {
		return 0
	}
	return d.ctx.PageCount
}

// Session returns the annotation session for this document. The session is
// owned by the document: no two sessions ever share a store, and all
// session operations are plain synchronous calls on the caller's thread.
func (d *Document) Session() *Session {
	return d.session
}

// Save writes any marks not yet applied into the annotation layer and then
// writes the whole document to path. On success the session's modified
// flag is cleared.
func (d *Document) Save(path string) error {
	if d.ctx == nil {
		return fmt.Errorf("napisytwon: document is closed")
	}
	if err := d.session.ctrl.ApplyPending(); err != nil {
		return fmt.Errorf("napisytwon: failed to apply marks: %w", err)
	}
	if err := api.WriteContextFile(d.ctx, path); err != nil {
		return fmt.Errorf("napisytwon: failed to write %s: %w", path, err)
	}
	d.session.ctrl.Store().SetModified(false)
	return nil
}

// Close releases the document. It is safe to call Close multiple times;
// session operations after Close affect only the in-memory store, as the
// session is detached from the document's annotation layer.
func (d *Document) Close() error {
	d.ctx = nil
	d.session.ctrl.SetSurface(nil)
	return nil
}
