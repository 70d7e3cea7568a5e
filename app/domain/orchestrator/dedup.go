package orchestrator

import (
	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/merge"
)

// dedupTable is the transient identity table owned by a single search
// invocation: keyed first by normalized DOI, falling back to normalized
// title for the fuzzy path (spec §3 Lifecycle, §4.5 step 4). It is not
// safe for concurrent use; the merge consumer is the table's sole owner.
type dedupTable struct {
	byDOI            map[string]int // doi -> index into records
	byNormalizedTitle map[string][]int
	records          []document.ScholarlyDocument
	threshold        float64
}

func newDedupTable(threshold float64) *dedupTable {
	return &dedupTable{
		byDOI:             make(map[string]int),
		byNormalizedTitle: make(map[string][]int),
		threshold:         threshold,
	}
}

// Ingest applies the dedup/merge rule to an incoming document: on hit,
// fuses and replaces the stored record, returning the fused value; on
// miss, records and returns the document unchanged. The bool return
// reports whether this was a fresh record (true) or a fused duplicate
// (false).
func (t *dedupTable) Ingest(incoming document.ScholarlyDocument) (document.ScholarlyDocument, bool) {
	if idx, ok := t.matchIndex(incoming); ok {
		fused := merge.Fuse(t.records[idx], incoming)
		t.replace(idx, fused)
		return fused, false
	}
	t.insert(incoming)
	return incoming, true
}

func (t *dedupTable) matchIndex(incoming document.ScholarlyDocument) (int, bool) {
	if incoming.DOI.Valid() {
		if idx, ok := t.byDOI[incoming.DOI.String()]; ok {
			return idx, true
		}
		// No exact DOI match, but a previously-inserted record of the same
		// work may still lack a DOI (e.g. an arXiv preprint merged before
		// its publisher-assigned DOI arrived). Fall through to the
		// title+author fuzzy path rather than treating this as a fresh
		// record, matching merge.SameWork's mixed-DOI branch.
	}
	for _, idx := range t.byNormalizedTitle[normalizedKey(incoming.Title)] {
		if merge.SameWork(t.records[idx], incoming, t.threshold) {
			return idx, true
		}
	}
	return 0, false
}

func (t *dedupTable) insert(doc document.ScholarlyDocument) {
	idx := len(t.records)
	t.records = append(t.records, doc)
	if doc.DOI.Valid() {
		t.byDOI[doc.DOI.String()] = idx
	}
	key := normalizedKey(doc.Title)
	t.byNormalizedTitle[key] = append(t.byNormalizedTitle[key], idx)
}

func (t *dedupTable) replace(idx int, doc document.ScholarlyDocument) {
	t.records[idx] = doc
	if doc.DOI.Valid() {
		t.byDOI[doc.DOI.String()] = idx
	}
}

func normalizedKey(title string) string {
	return merge.NormalizeTitle(title)
}
