package annotation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Store is the authoritative collection of annotations for one open
// document. It owns every sequence-level algorithm: duplicate lookup,
// advance/decrease renumbering, gap detection, and sub-number allocation.
//
// Store only mutates its own state. Keeping the rendered document in sync
// and deciding duplicate policy are the caller's job; mutating operations
// return the changed entities so the caller can build undo records and
// resynchronize marks.
type Store struct {
	entities map[string]*Annotation
	seq      map[string]int // id -> insertion sequence, for stable ordering
	nextSeq  int
	modified bool
}

// LabelChange records a single relabel performed by a bulk renumbering
// operation.
type LabelChange struct {
	Annotation *Annotation
	OldLabel   string
	NewLabel   string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		entities: make(map[string]*Annotation),
		seq:      make(map[string]int),
	}
}

// Add inserts an annotation by id and marks the store modified.
//
// Add performs no duplicate-label check; callers enforce the duplicate
// policy before inserting (see HasLabel). Keeping the check out of the
// mutation is deliberate: the store is mechanism, the shell is policy.
func (s *Store) Add(a *Annotation) {
	if _, ok := s.seq[a.ID]; !ok {
		s.seq[a.ID] = s.nextSeq
		s.nextSeq++
	}
	s.entities[a.ID] = a
	s.modified = true
}

// Remove deletes an annotation by id and returns it, or nil if the id is
// unknown. The store is marked modified only when something was removed.
func (s *Store) Remove(id string) *Annotation {
	a, ok := s.entities[id]
	if !ok {
		return nil
	}
	delete(s.entities, id)
	s.modified = true
	return a
}

// Get returns the annotation with the given id, or nil.
func (s *Store) Get(id string) *Annotation {
	return s.entities[id]
}

// ForPage returns the annotations on a page (0-based), in insertion order.
func (s *Store) ForPage(page int) []*Annotation {
	var out []*Annotation
	for _, a := range s.entities {
		if a.Page == page {
			out = append(out, a)
		}
	}
	s.sortBySeq(out)
	return out
}

// All returns every annotation in insertion order.
func (s *Store) All() []*Annotation {
	out := make([]*Annotation, 0, len(s.entities))
	for _, a := range s.entities {
		out = append(out, a)
	}
	s.sortBySeq(out)
	return out
}

// AllSorted returns every annotation ordered by label key ascending. The
// sort is stable over insertion order, so repeated calls and round-trips
// produce the same sequence.
func (s *Store) AllSorted() []*Annotation {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		im, is := out[i].SortKey()
		jm, js := out[j].SortKey()
		if im != jm {
			return im < jm
		}
		return is < js
	})
	return out
}

// Count returns the number of annotations.
func (s *Store) Count() int {
	return len(s.entities)
}

// CountByPage returns the number of annotations per page, keyed by page
// index. Pages without annotations are absent.
func (s *Store) CountByPage() map[int]int {
	counts := make(map[int]int)
	for _, a := range s.entities {
		counts[a.Page]++
	}
	return counts
}

// HasLabel reports whether any annotation carries the given label,
// comparing by (main, sub) key only: "5p" and "5" count as the same label.
// Malformed labels match nothing.
func (s *Store) HasLabel(label string) bool {
	return s.GetByLabel(label) != nil
}

// GetByLabel returns the first annotation whose label matches the given one
// by (main, sub) key, ignoring the empty marker, or nil.
func (s *Store) GetByLabel(label string) *Annotation {
	m, sub, err := ParseLabel(label)
	if err != nil {
		return nil
	}
	for _, a := range s.AllSorted() {
		am, as := a.SortKey()
		if am == m && as == sub {
			return a
		}
	}
	return nil
}

// NextNumber returns the next free whole number as a label: "1" for an
// empty store, otherwise one past the highest whole-number main. Entries
// with a sub-number do not influence the result.
func (s *Store) NextNumber() string {
	highest := 0
	found := false
	for _, a := range s.entities {
		m, sub := a.SortKey()
		if sub != 0 {
			continue
		}
		if !found || m > highest {
			highest = m
			found = true
		}
	}
	if !found {
		return "1"
	}
	return FormatLabel(highest+1, 0)
}

// NextSubNumber returns the next free sub-number label under the given main
// value: "5.3" when 5.1 and 5.2 exist, "5.1" when there are none yet.
func (s *Store) NextSubNumber(main string) (string, error) {
	m, _, err := ParseLabel(main)
	if err != nil {
		return "", err
	}
	highest := 0
	for _, a := range s.entities {
		am, as := a.SortKey()
		if am == m && as > highest {
			highest = as
		}
	}
	return FormatLabel(m, highest+1), nil
}

// AdvanceFrom shifts every whole-number annotation whose main is greater
// than or equal to the target label's main by delta, preserving a trailing
// empty marker on each relabeled entry. Sub-numbered entries are never
// touched. The returned changes are in ascending label order.
//
// The usual call is AdvanceFrom(target, 1) to free the target label before
// inserting or relabeling onto it.
func (s *Store) AdvanceFrom(label string, delta int) ([]LabelChange, error) {
	target, _, err := ParseLabel(label)
	if err != nil {
		return nil, err
	}
	return s.shift(func(m int) bool { return m >= target }, delta), nil
}

// DecreaseFrom shifts every whole-number annotation whose main is strictly
// greater than the target label's main down by delta. The target itself is
// excluded: it is assumed to be the entry the caller is about to delete, so
// decreasing closes the gap it leaves behind. Sub-numbered entries are
// never touched.
func (s *Store) DecreaseFrom(label string, delta int) ([]LabelChange, error) {
	target, _, err := ParseLabel(label)
	if err != nil {
		return nil, err
	}
	return s.shift(func(m int) bool { return m > target }, -delta), nil
}

func (s *Store) shift(affected func(main int) bool, delta int) []LabelChange {
	var changes []LabelChange
	for _, a := range s.AllSorted() {
		m, sub := a.SortKey()
		if sub != 0 || !affected(m) {
			continue
		}
		old := a.Label
		relabeled := FormatLabel(m+delta, 0)
		if HasEmptyMarker(old) {
			relabeled += EmptyMarker
		}
		a.Label = relabeled
		changes = append(changes, LabelChange{Annotation: a, OldLabel: old, NewLabel: relabeled})
	}
	if len(changes) > 0 {
		s.modified = true
	}
	return changes
}

// FindGaps returns the whole numbers missing from the range spanned by the
// existing whole-number annotations, ascending. A store with no
// whole-number entries has no sequence to check and yields no gaps.
func (s *Store) FindGaps() []int {
	mains := make(map[int]bool)
	lo, hi := 0, 0
	for _, a := range s.entities {
		m, sub := a.SortKey()
		if sub != 0 {
			continue
		}
		if len(mains) == 0 {
			lo, hi = m, m
		} else {
			if m < lo {
				lo = m
			}
			if m > hi {
				hi = m
			}
		}
		mains[m] = true
	}
	if len(mains) == 0 {
		return nil
	}

	var gaps []int
	for n := lo; n <= hi; n++ {
		if !mains[n] {
			gaps = append(gaps, n)
		}
	}
	return gaps
}

// ValidateSequence checks the whole-number sequence for gaps. It returns
// true with an OK message when the sequence is complete, and false with a
// message naming the missing numbers otherwise: the single value for one
// gap, the full list for up to five, and a truncated summary beyond that.
func (s *Store) ValidateSequence() (bool, string) {
	gaps := s.FindGaps()
	switch {
	case len(gaps) == 0:
		return true, "sequence complete"
	case len(gaps) == 1:
		return false, fmt.Sprintf("missing number: %d", gaps[0])
	case len(gaps) <= 5:
		parts := make([]string, len(gaps))
		for i, g := range gaps {
			parts[i] = fmt.Sprintf("%d", g)
		}
		return false, fmt.Sprintf("missing numbers: %s", strings.Join(parts, ", "))
	default:
		return false, fmt.Sprintf("%d missing: %d...%d", len(gaps), gaps[0], gaps[len(gaps)-1])
	}
}

// Clear removes every annotation and marks the store modified.
func (s *Store) Clear() {
	s.entities = make(map[string]*Annotation)
	s.seq = make(map[string]int)
	s.nextSeq = 0
	s.modified = true
}

// Modified reports whether the store changed since the last save
// acknowledgment.
func (s *Store) Modified() bool {
	return s.modified
}

// SetModified sets or clears the modified flag. The flag is cleared only by
// an explicit save acknowledgment from the caller.
func (s *Store) SetModified(v bool) {
	s.modified = v
}

// ToJSON serializes every annotation, including its owned style and mark,
// as a JSON array in label order.
func (s *Store) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s.AllSorted(), "", "  ")
}

// FromJSON wholesale replaces the store contents with the annotations in a
// JSON array produced by ToJSON, and marks the store modified. Every label
// is validated before anything is replaced; a malformed document or label
// leaves the current contents untouched.
func (s *Store) FromJSON(data []byte) error {
	var loaded []*Annotation
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse annotation data: %w", err)
	}
	for _, a := range loaded {
		if a.ID == "" {
			return fmt.Errorf("annotation with label %q has no id", a.Label)
		}
		if _, _, err := ParseLabel(a.Label); err != nil {
			return fmt.Errorf("annotation %s: %w", a.ID, err)
		}
		if a.Style == (Style{}) {
			a.Style = DefaultStyle()
		}
	}

	s.entities = make(map[string]*Annotation, len(loaded))
	s.seq = make(map[string]int, len(loaded))
	s.nextSeq = 0
	for _, a := range loaded {
		s.entities[a.ID] = a
		s.seq[a.ID] = s.nextSeq
		s.nextSeq++
	}
	s.modified = true
	return nil
}

func (s *Store) sortBySeq(list []*Annotation) {
	sort.SliceStable(list, func(i, j int) bool {
		return s.seq[list[i].ID] < s.seq[list[j].ID]
	})
}
