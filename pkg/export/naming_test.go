package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santralytics/santralytics/core/model"
)

func TestSlugify(t *testing.T) {
	/*
		Cases:
		  - spaces become underscores
		  - Turkish letters survive
		  - punctuation is dropped, dashes and underscores stay
	*/
	cases := map[string]string{
		"Soma RES":        "Soma_RES",
		" ÇAMLICA HES-1 ": "ÇAMLICA_HES-1",
		"A.B/C (X)":       "ABC_X",
		"soma_res":        "soma_res",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestWorkbookFileName(t *testing.T) {
	rng, err := model.NewDateRange("2024-01-01", "2024-12-31")
	require.NoError(t, err)

	got := WorkbookFileName("Soma RES", "Dinar RES", rng)
	assert.Equal(t, "Analiz_Soma_RES_vs_Dinar_RES_20240101_20241231.xlsx", got)
}
