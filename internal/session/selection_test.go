package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/combo/internal/combination"
)

func TestMatch(t *testing.T) {
	c := combination.Combination{
		Description: "1-2",
		Distance:    combination.Short,
		Defense:     combination.Yes,
		Faint:       combination.No,
		Body:        combination.No,
	}

	tests := []struct {
		name string
		sel  Selections
		want bool
	}{
		{"all", AllSelections(), true},
		{"short", Selections{DistanceShort, All, All, All}, true},
		{"long excludes short", Selections{DistanceLong, All, All, All}, false},
		{"defence yes", Selections{DistanceAll, Yes, All, All}, true},
		{"defence no", Selections{DistanceAll, No, All, All}, false},
		{"faint no", Selections{DistanceAll, All, No, All}, true},
		{"faint yes", Selections{DistanceAll, All, Yes, All}, false},
		{"body yes", Selections{DistanceAll, All, All, Yes}, false},
		{"every facet matching", Selections{DistanceShort, Yes, No, No}, true},
		{"one facet failing", Selections{DistanceShort, Yes, No, Yes}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.Match(c))
		})
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	records := everyVariant()
	got := Filter(records, Selections{DistanceAll, Yes, All, All})

	require.Len(t, got, 8)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
	for _, idx := range got {
		assert.Equal(t, combination.Yes, records[idx].Defense)
	}
}

func TestParseDistanceSelection(t *testing.T) {
	for in, want := range map[string]DistanceSelection{
		"":       DistanceAll,
		"ALL":    DistanceAll,
		"long":   DistanceLong,
		" Short": DistanceShort,
	} {
		got, err := ParseDistanceSelection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDistanceSelection("medium")
	require.Error(t, err)
}

func TestParseSelection(t *testing.T) {
	for in, want := range map[string]Selection{
		"":    All,
		"all": All,
		"YES": Yes,
		"no ": No,
	} {
		got, err := ParseSelection("body", in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSelection("body", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "body must be one of")
}
