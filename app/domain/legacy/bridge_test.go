package legacy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/legacy"
)

type fakeSearcher struct {
	docs []document.ScholarlyDocument
	err  error
}

func (f fakeSearcher) Search(ctx context.Context, intent document.SearchIntent, emit func(document.ScholarlyDocument) error) error {
	if f.err != nil {
		return f.err
	}
	for _, d := range f.docs {
		if err := emit(d); err != nil {
			return err
		}
	}
	return nil
}

func TestBridge_PagesResults(t *testing.T) {
	docs := []document.ScholarlyDocument{
		{InternalID: "oa:1"}, {InternalID: "oa:2"}, {InternalID: "oa:3"},
	}
	b := legacy.New(fakeSearcher{docs: docs})
	result := b.Search(context.Background(), "q", 2, 0, nil)

	assert.Len(t, result.Documents, 2)
	assert.True(t, result.HasMore)
}

func TestBridge_SwallowsErrors(t *testing.T) {
	b := legacy.New(fakeSearcher{err: errors.New("boom")})
	result := b.Search(context.Background(), "q", 10, 0, nil)

	assert.Empty(t, result.Documents)
	assert.False(t, result.HasMore)
}

func TestConvertFilters_MalformedValueDoesNotFail(t *testing.T) {
	b := legacy.New(fakeSearcher{docs: nil})
	// Exercised indirectly: a malformed year must not panic or error.
	result := b.Search(context.Background(), "q", 5, 0, map[string]string{
		"from_year":   "2020",
		"to_year":     "not-a-number",
		"has_pdf":     "true",
		"open_access": "1",
	})
	assert.False(t, result.HasMore)
	_ = b
}
