package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santralytics/santralytics/core/analysis"
	"github.com/santralytics/santralytics/core/model"
)

/*
Cases:
  - header row carries the Turkish detail columns
  - one line per hour with date, month and hour fields
  - nil values become empty fields, not zeros
*/
func TestWriteHourlyCSV(t *testing.T) {
	cmp := testComparison(t)

	var buf bytes.Buffer
	require.NoError(t, WriteHourlyCSV(&buf, cmp.Left.Hours))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 49)

	assert.Equal(t, detailHeaders, rows[0])
	first := rows[1]
	assert.Equal(t, "2024-01-31", first[0])
	assert.Equal(t, "1", first[1])
	assert.Equal(t, "00:00", first[2])
	assert.Equal(t, "1000", first[3])
	assert.Equal(t, "19400", first[11])
}

func TestWriteHourlyCSVEmptyFields(t *testing.T) {
	hour := time.Date(2024, 3, 5, 10, 0, 0, 0, model.MarketZone)
	records := []analysis.HourlyRecord{{Hour: hour}}

	var buf bytes.Buffer
	require.NoError(t, WriteHourlyCSV(&buf, records))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rec := rows[1]
	assert.Equal(t, "2024-03-05", rec[0])
	assert.Equal(t, "3", rec[1])
	assert.Equal(t, "10:00", rec[2])
	for i := 3; i < len(rec); i++ {
		assert.Empty(t, rec[i])
	}
}
