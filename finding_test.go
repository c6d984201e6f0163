package polyglint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinding_ValidateAgainst(t *testing.T) {
	f := Finding{FilePath: "a.py", Span: Span{Start: 2, End: 5}}

	require.NoError(t, f.ValidateAgainst("a.py", 10))

	err := f.ValidateAgainst("b.py", 10)
	require.Error(t, err)

	err = f.ValidateAgainst("a.py", 3)
	require.Error(t, err)
}

func TestSpan_Valid(t *testing.T) {
	assert.True(t, Span{Start: 0, End: 0}.valid(0))
	assert.True(t, Span{Start: 2, End: 5}.valid(5))
	assert.False(t, Span{Start: 5, End: 2}.valid(10))
	assert.False(t, Span{Start: 0, End: 11}.valid(10))
}

// TestApplyEdits_LengthInvariant exercises property 6 from §8: applying a
// Finding's edits yields a buffer whose length equals the original length
// plus the sum of per-edit length deltas.
func TestApplyEdits_LengthInvariant(t *testing.T) {
	src := []byte("import os\nprint(\"hi\")\n")
	edits := []Edit{
		{Start: 0, End: 10, Replacement: ""},
	}
	out, err := ApplyEdits(src, edits)
	require.NoError(t, err)

	delta := 0
	for _, e := range edits {
		delta += len(e.Replacement) - (e.End - e.Start)
	}
	assert.Equal(t, len(src)+delta, len(out))
	assert.Equal(t, "print(\"hi\")\n", string(out))
}

func TestApplyEdits_MultipleDisjointEdits(t *testing.T) {
	src := []byte("aaabbbccc")
	edits := []Edit{
		{Start: 0, End: 3, Replacement: "X"},
		{Start: 6, End: 9, Replacement: "YY"},
	}
	out, err := ApplyEdits(src, edits)
	require.NoError(t, err)
	assert.Equal(t, "XbbbYY", string(out))
}

func TestApplyEdits_OutOfOrderIsError(t *testing.T) {
	src := []byte("abcdef")
	edits := []Edit{
		{Start: 3, End: 4, Replacement: "X"},
		{Start: 1, End: 2, Replacement: "Y"},
	}
	_, err := ApplyEdits(src, edits)
	require.Error(t, err)
}
