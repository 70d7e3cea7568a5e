// Package merge implements the pure cross-provider fusion rule set (spec
// §4.4): identity determination and the per-field fusion table.
package merge

import (
	"regexp"
	"strings"

	"github.com/scholarfed/engine/app/domain/document"
)

// DefaultTitleSimilarityThreshold is the fuzzy-dedup threshold (spec §9
// Open Question) that SameWork applies as the minimum author-name Jaccard
// overlap; titles must match exactly after normalization. The source material
// documents this in two places with different values (85% and 97%); this
// implementation surfaces it as a configurable constant defaulting to
// 0.90, overridable via environment_variables.EnvironmentVariables.TitleSimilarityThreshold.
const DefaultTitleSimilarityThreshold = 0.90

// providerPrecedence ranks providers for title/year/venue tie-breaking:
// Crossref > OpenAlex > Semantic Scholar > arXiv (spec §4.4).
var providerPrecedence = map[document.ProviderTag]int{
	document.ProviderCrossref:        4,
	document.ProviderOpenAlex:        3,
	document.ProviderSemanticScholar: 2,
	document.ProviderArxiv:           1,
}

func precedenceOf(tag document.ProviderTag) int {
	return providerPrecedence[tag]
}

// SameWork determines fusion identity between two documents: DOI equality
// when both present, otherwise normalized-title equality AND >=
// authorJaccardThreshold Jaccard overlap on normalized author-name tokens
// (spec §4.4).
func SameWork(a, b document.ScholarlyDocument, authorJaccardThreshold float64) bool {
	if a.DOI.Valid() && b.DOI.Valid() {
		return a.DOI.Equal(b.DOI)
	}
	if a.DOI.Valid() != b.DOI.Valid() {
		// One has a DOI, the other doesn't: identity falls through to the
		// title+author fuzzy path rather than failing outright, since a
		// provider lacking DOI coverage for a work is common (e.g. arXiv
		// preprints not yet assigned one).
	}
	if normalizeTitle(a.Title) == "" || normalizeTitle(a.Title) != normalizeTitle(b.Title) {
		return false
	}
	return authorJaccard(a.Authors, b.Authors) >= authorJaccardThreshold
}

var punctuationPattern = regexp.MustCompile(`[^\w\s]`)
var whitespacePattern = regexp.MustCompile(`\s+`)

// NormalizeTitle lowercases, strips punctuation, and collapses whitespace
// in title, the same normalization SameWork applies for title equality.
// Exported so the orchestrator's dedup table can bucket candidates by the
// same key without duplicating the normalization rule.
func NormalizeTitle(title string) string {
	return normalizeTitle(title)
}

func normalizeTitle(title string) string {
	lower := strings.ToLower(title)
	stripped := punctuationPattern.ReplaceAllString(lower, "")
	collapsed := whitespacePattern.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(collapsed)
}

func normalizeAuthorToken(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func authorJaccard(a, b []document.Author) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	setA := make(map[string]struct{}, len(a))
	for _, au := range a {
		setA[normalizeAuthorToken(au.DisplayName)] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, au := range b {
		setB[normalizeAuthorToken(au.DisplayName)] = struct{}{}
	}
	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Fuse combines two documents judged to refer to the same work, applying
// the spec §4.4 field-by-field rules. left is the existing aggregate,
// right the incoming record; the result is a new value (copy-on-fuse, no
// mutation of either input).
func Fuse(left, right document.ScholarlyDocument) document.ScholarlyDocument {
	out := left.Clone()

	// DOI: existing wins; fill from right only if existing is null.
	if !out.DOI.Valid() && right.DOI.Valid() {
		out.DOI = right.DOI
	}

	// Title: provider precedence governs the choice. Provenance is tracked
	// explicitly (not read off SourceProvider, which never changes across
	// fusions) so repeated fusion stays associative (I4).
	leftTitleProv, rightTitleProv := left.EffectiveTitleProvenance(), right.EffectiveTitleProvenance()
	if precedenceOf(rightTitleProv) > precedenceOf(leftTitleProv) {
		out.Title = right.Title
		out.TitleProvenance = rightTitleProv
	} else {
		out.TitleProvenance = leftTitleProv
	}

	// Authors: longer list wins; on tie, richer entries preferred per
	// position.
	out.Authors = fuseAuthors(left.Authors, right.Authors)

	// Publication year: same precedence table as title.
	leftYearProv, rightYearProv := left.EffectiveYearProvenance(), right.EffectiveYearProvenance()
	switch {
	case right.PublicationYear != nil && left.PublicationYear == nil:
		out.PublicationYear = right.PublicationYear
		out.YearProvenance = rightYearProv
	case right.PublicationYear != nil && precedenceOf(rightYearProv) > precedenceOf(leftYearProv):
		out.PublicationYear = right.PublicationYear
		out.YearProvenance = rightYearProv
	default:
		out.YearProvenance = leftYearProv
	}

	// Venue: non-null wins; on conflict, Crossref precedence.
	out.Venue, out.VenueProvenance = fuseVenue(left, right)

	// Citation count: maximum of the two (I3).
	if right.CitationCount > out.CitationCount {
		out.CitationCount = right.CitationCount
	}

	// PDF URL: first non-null; existing wins on conflict.
	if out.PDFURL == nil {
		out.PDFURL = right.PDFURL
	}

	// Abstract: existing non-null wins; else take right.
	if out.Abstract == nil {
		out.Abstract = right.Abstract
	}

	// TLDR: only Semantic Scholar ever produces one, but a fused record's
	// SourceProvider isn't necessarily "semanticscholar" even when it
	// carries a TLDR (fusion keeps the left operand's SourceProvider), so
	// gating on right.SourceProvider breaks associativity (I4): fill
	// whenever right actually carries one, existing value wins on conflict.
	if out.TLDR == nil && right.TLDR != nil {
		out.TLDR = right.TLDR
	}

	// Concepts: union by name (case-insensitive); score = max.
	out.Concepts = fuseConcepts(left.Concepts, right.Concepts)

	// References/citations: union of id sets, order-preserving by first
	// appearance.
	out.References = unionOrdered(left.References, right.References)
	out.Citations = unionOrdered(left.Citations, right.Citations)

	// Sidecar: union of maps; keys are unique per provider so no conflict.
	out.SidecarPayloads = fuseSidecar(left.SidecarPayloads, right.SidecarPayloads)

	// Confidence: minimum of the two.
	if right.Confidence < out.Confidence {
		out.Confidence = right.Confidence
	}

	// Merged ids: union, plus the other record's internal id.
	out.MergedIDs = unionOrdered(append(append([]string(nil), left.MergedIDs...), left.InternalID), append(append([]string(nil), right.MergedIDs...), right.InternalID))
	out.MergedIDs = dedupPreserveOrder(out.MergedIDs)
	removeValue(&out.MergedIDs, out.InternalID)

	// Hydration flag: logical OR.
	out.FullyHydrated = left.FullyHydrated || right.FullyHydrated

	return out
}

func fuseVenue(left, right document.ScholarlyDocument) (*string, document.ProviderTag) {
	leftProv, rightProv := left.EffectiveVenueProvenance(), right.EffectiveVenueProvenance()
	if left.Venue == nil {
		return right.Venue, rightProv
	}
	if right.Venue == nil {
		return left.Venue, leftProv
	}
	if *left.Venue == *right.Venue {
		return left.Venue, leftProv
	}
	if precedenceOf(rightProv) > precedenceOf(leftProv) {
		return right.Venue, rightProv
	}
	return left.Venue, leftProv
}

func fuseAuthors(left, right []document.Author) []document.Author {
	if len(right) > len(left) {
		return mergeRicherPerPosition(right, left)
	}
	return mergeRicherPerPosition(left, right)
}

// mergeRicherPerPosition returns a copy of longer with each position
// replaced by the richer entry (ORCID present, affiliation present)
// between longer[i] and shorter[i] when both exist.
func mergeRicherPerPosition(longer, shorter []document.Author) []document.Author {
	out := make([]document.Author, len(longer))
	copy(out, longer)
	for i := range out {
		if i >= len(shorter) {
			continue
		}
		if richness(shorter[i]) > richness(out[i]) {
			out[i] = shorter[i]
		}
	}
	return out
}

func richness(a document.Author) int {
	score := 0
	if a.ORCID != "" {
		score++
	}
	if a.Affiliation != "" {
		score++
	}
	return score
}

func fuseConcepts(left, right []document.Concept) []document.Concept {
	byName := make(map[string]document.Concept)
	var order []string
	add := func(c document.Concept) {
		key := strings.ToLower(c.Name)
		if existing, ok := byName[key]; ok {
			if c.RelevanceScore > existing.RelevanceScore {
				existing.RelevanceScore = c.RelevanceScore
			}
			if existing.ProviderConceptID == "" {
				existing.ProviderConceptID = c.ProviderConceptID
			}
			byName[key] = existing
			return
		}
		byName[key] = c
		order = append(order, key)
	}
	for _, c := range left {
		add(c)
	}
	for _, c := range right {
		add(c)
	}
	out := make([]document.Concept, 0, len(order))
	for _, k := range order {
		out = append(out, byName[k])
	}
	return out
}

func unionOrdered(left, right []string) []string {
	seen := make(map[string]struct{}, len(left)+len(right))
	out := make([]string, 0, len(left)+len(right))
	for _, v := range left {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range right {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func dedupPreserveOrder(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func removeValue(values *[]string, target string) {
	out := (*values)[:0]
	for _, v := range *values {
		if v != target {
			out = append(out, v)
		}
	}
	*values = out
}

func fuseSidecar(left, right document.Sidecar) document.Sidecar {
	out := left.Clone()
	for k, v := range right {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}
