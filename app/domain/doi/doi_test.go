package doi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/doi"
)

func TestParse_EquivalentForms(t *testing.T) {
	inputs := []string{
		"10.1038/s41586-019-1666-5",
		"https://doi.org/10.1038/s41586-019-1666-5",
		"DOI:10.1038/S41586-019-1666-5",
		"  http://dx.doi.org/10.1038/s41586-019-1666-5  ",
	}

	var first doi.DOI
	for i, in := range inputs {
		d, ok := doi.Parse(in)
		assert.True(t, ok, "input %q should parse", in)
		if i == 0 {
			first = d
		}
		assert.True(t, d.Equal(first), "input %q should normalize equal to the first", in)
	}

	assert.Equal(t, "10.1038/s41586-019-1666-5", first.String())
	assert.Equal(t, "https://doi.org/10.1038/s41586-019-1666-5", first.URL())
}

func TestParse_NoDOI(t *testing.T) {
	_, ok := doi.Parse("not-a-doi")
	assert.False(t, ok)
}

func TestParse_Idempotent(t *testing.T) {
	// I1: DOI.parse(x).map(toUrl).andThen(parse) == DOI.parse(x)
	d, ok := doi.Parse("https://doi.org/10.1038/s41586-019-1666-5")
	assert.True(t, ok)

	reparsed, ok := doi.Parse(d.URL())
	assert.True(t, ok)
	assert.True(t, d.Equal(reparsed))
}

func TestTrusted_SkipsValidation(t *testing.T) {
	d := doi.Trusted("10.1000/xyz")
	assert.True(t, d.Valid())
	assert.Equal(t, "10.1000/xyz", d.String())
}

func TestEqual_InvalidNeverEqual(t *testing.T) {
	var a, b doi.DOI
	assert.False(t, a.Equal(b))
}
