package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
Cases:
  - the document carries the range and both plants
  - monthly aggregates and the range total round-trip
*/
func TestWriteSummaryJSON(t *testing.T) {
	cmp := testComparison(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryJSON(&buf, cmp))

	var doc comparisonJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2024-01-31", doc.Start)
	assert.Equal(t, "2024-02-01", doc.End)
	require.Len(t, doc.Plants, 2)
	assert.Equal(t, "Soma RES", doc.Plants[0].Name)
	assert.Equal(t, "RES", doc.Plants[0].Type)
	assert.Len(t, doc.Plants[0].Months, 2)
	assert.Equal(t, 5760.0, doc.Plants[0].Total.GenerationMWh)
	assert.Equal(t, "Dinar RES", doc.Plants[1].Name)
}
