// Package annotation implements the data model for numbered PDF annotations:
// the compound label grammar, styles and style presets, the annotation
// entity, and the store that owns all sequence-level algorithms.
package annotation

import (
	"fmt"
	"strconv"
	"strings"
)

// EmptyMarker is the trailing suffix denoting a placeholder ("empty") slide.
// It is cosmetic: a label carries it for display, but ordering and
// uniqueness ignore it.
const EmptyMarker = "p"

// InvalidLabelError reports a label that does not match the
// <main>[.<sub>][p] grammar.
type InvalidLabelError struct {
	Label  string
	Reason string
}

func (e *InvalidLabelError) Error() string {
	return fmt.Sprintf("invalid label %q: %s", e.Label, e.Reason)
}

// ParseLabel parses a compound label into its (main, sub) ordering key.
//
// The grammar is a non-negative integer main part, an optional "." followed
// by a non-negative integer sub part, and an optional trailing "p" marker.
// The marker is stripped before parsing and is not part of the key:
// ParseLabel("5p") and ParseLabel("5") both return (5, 0).
//
//	ParseLabel("67")    // 67, 0
//	ParseLabel("67.1")  // 67, 1
//	ParseLabel("67.1p") // 67, 1
func ParseLabel(label string) (main, sub int, err error) {
	s := strings.TrimSuffix(label, EmptyMarker)
	if s == "" {
		return 0, 0, &InvalidLabelError{Label: label, Reason: "missing main number"}
	}

	mainPart := s
	subPart := ""
	hasSub := false
	if i := strings.Index(s, "."); i >= 0 {
		mainPart = s[:i]
		subPart = s[i+1:]
		hasSub = true
		if strings.Contains(subPart, ".") {
			return 0, 0, &InvalidLabelError{Label: label, Reason: "more than one sub-number separator"}
		}
	}

	main, err = strconv.Atoi(mainPart)
	if err != nil || main < 0 {
		return 0, 0, &InvalidLabelError{Label: label, Reason: "main part is not a non-negative integer"}
	}

	if hasSub {
		sub, err = strconv.Atoi(subPart)
		if err != nil || sub < 0 {
			return 0, 0, &InvalidLabelError{Label: label, Reason: "sub part is not a non-negative integer"}
		}
	}

	return main, sub, nil
}

// FormatLabel renders a (main, sub) key back into label form: "67" when sub
// is zero, "67.1" otherwise.
//
// FormatLabel never re-appends the empty marker; callers that need to keep a
// "p" suffix through a relabel reattach it themselves. Several call sites
// (number allocation in particular) deliberately want the bare numeric form.
func FormatLabel(main, sub int) string {
	if sub == 0 {
		return strconv.Itoa(main)
	}
	return fmt.Sprintf("%d.%d", main, sub)
}

// CompareLabels orders two labels by their (main, sub) keys, returning
// -1, 0 or 1. Labels that fail to parse sort as (0, 0).
func CompareLabels(a, b string) int {
	am, as, _ := ParseLabel(a)
	bm, bs, _ := ParseLabel(b)
	if am != bm {
		if am < bm {
			return -1
		}
		return 1
	}
	if as != bs {
		if as < bs {
			return -1
		}
		return 1
	}
	return 0
}

// SortKey returns the (main, sub) ordering key for a label, or (0, 0) for a
// malformed one. A whole number (n, 0) sorts immediately before any
// sub-number (n, k) of the same main.
func SortKey(label string) (main, sub int) {
	main, sub, _ = ParseLabel(label)
	return main, sub
}

// HasEmptyMarker reports whether a label carries the trailing "p" suffix.
func HasEmptyMarker(label string) bool {
	return strings.HasSuffix(label, EmptyMarker)
}
