package document

// ErrorKind classifies why a provider operation failed (spec §4.2, §7).
type ErrorKind string

const (
	ErrorTransient           ErrorKind = "transient"
	ErrorPermanent           ErrorKind = "permanent"
	ErrorMalformed           ErrorKind = "malformed"
	ErrorCapabilityMismatch  ErrorKind = "capability_mismatch"
	ErrorExhausted           ErrorKind = "exhausted"
	ErrorNotFound            ErrorKind = "not_found"
)

// ProviderError is the classified cause carried by an Error-variant
// ProviderResult.
type ProviderError struct {
	Kind           ErrorKind
	Provider       ProviderTag
	Cause          error
	RetryPermitted bool
	RetryAfterMs   *int64
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return string(e.Provider) + ": " + string(e.Kind) + ": " + e.Cause.Error()
	}
	return string(e.Provider) + ": " + string(e.Kind)
}

// ProviderResult is the sum type a provider's search stream emits: either
// a Success frame carrying a page of documents, or a single terminal Error
// frame (spec §3 ProviderResult).
type ProviderResult struct {
	// Success fields
	Documents  []ScholarlyDocument
	TotalCount int
	HasMore    bool

	// Error field; nil on a Success frame.
	Err *ProviderError
}

// IsError reports whether this frame is the terminal Error variant.
func (r ProviderResult) IsError() bool {
	return r.Err != nil
}

// Success builds a Success ProviderResult frame.
func Success(docs []ScholarlyDocument, total int, hasMore bool) ProviderResult {
	return ProviderResult{Documents: docs, TotalCount: total, HasMore: hasMore}
}

// Failure builds an Error ProviderResult frame.
func Failure(err *ProviderError) ProviderResult {
	return ProviderResult{Err: err}
}

// Stats is the statistics record returned by getStats (spec §4.2).
type Stats struct {
	TotalCount       int
	YearHistogram    map[int]int
	TopConcepts      []Concept
	EstimatedMs      int64
}
