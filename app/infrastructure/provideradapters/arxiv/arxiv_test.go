package arxiv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractArxivID(t *testing.T) {
	assert.Equal(t, "1234.5678", extractArxivID("http://arxiv.org/abs/1234.5678v1"))
	assert.Equal(t, "1234.5678", extractArxivID("http://arxiv.org/abs/1234.5678"))
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "Machine Learning", categoryName("cs.LG"))
	assert.Equal(t, "cs.ZZ", categoryName("cs.ZZ"))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", collapseWhitespace("a\n  b\tc"))
}

func TestConvertEntry_ExtractsPDFLinkByTitle(t *testing.T) {
	a := &Adapter{}
	entry := atomEntry{
		ID:        "http://arxiv.org/abs/2301.00001v2",
		Title:     "A Paper",
		Summary:   "An abstract",
		Published: "2023-01-05T00:00:00Z",
		Authors:   []atomAuthor{{Name: "Jane Doe"}},
		Categories: []atomCategory{{Term: "cs.AI"}},
		Links: []atomLink{
			{Href: "http://arxiv.org/abs/2301.00001v2", Title: ""},
			{Href: "http://arxiv.org/pdf/2301.00001v2", Title: "pdf"},
		},
	}

	doc, err := a.convertEntry(entry, "enrichment", nil)
	assert.NoError(t, err)
	assert.Equal(t, "arxiv:2301.00001", doc.InternalID)
	assert.Equal(t, 2023, *doc.PublicationYear)
	assert.NotNil(t, doc.PDFURL)
	assert.Equal(t, "http://arxiv.org/pdf/2301.00001v2", *doc.PDFURL)
	assert.Len(t, doc.Concepts, 1)
	assert.Equal(t, "Artificial Intelligence", doc.Concepts[0].Name)
}
