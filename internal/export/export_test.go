package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet/file"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/travel-segments-go/internal/models"
)

var sample = []models.SegmentSummary{
	{Segment: models.SegmentFamily, UserCount: 12, AvgFlightCost: 410.5, AvgBookingRate: 0.3, RecommendedAction: "Free hotel meal for the whole family"},
	{Segment: models.SegmentWindowShopper, UserCount: 4, RecommendedAction: "Exclusive discount on the first booking"},
}

func TestTimestampedFilename(t *testing.T) {
	now := time.Date(2023, time.June, 1, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, filepath.Join("out", "segment_summary_20230601_140509.json"), TimestampedFilename("out", "segment_summary", "json", now))
}

func TestSummaryJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	path, err := Summary(dir, FormatJSON, sample)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []models.SegmentSummary
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, sample, got)
}

func TestSummaryParquet(t *testing.T) {
	path, err := Summary(t.TempDir(), FormatParquet, sample)
	require.NoError(t, err)

	rdr, err := file.OpenParquetFile(path, false)
	require.NoError(t, err)
	defer rdr.Close()

	reader, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	require.NoError(t, err)

	table, err := reader.ReadTable(context.Background())
	require.NoError(t, err)
	defer table.Release()

	assert.Equal(t, int64(2), table.NumRows())
	assert.Equal(t, int64(9), table.NumCols())

	segments := table.Column(0).Data().Chunk(0).(*array.String)
	counts := table.Column(1).Data().Chunk(0).(*array.Int64)
	assert.Equal(t, models.SegmentFamily, segments.Value(0))
	assert.Equal(t, int64(4), counts.Value(1))
}

func TestSummaryUnknownFormat(t *testing.T) {
	_, err := Summary(t.TempDir(), "xml", sample)
	assert.True(t, eris.Is(err, ErrUnknownFormat))
}

type closeFailer struct {
	bytes.Buffer
	closed bool
}

func (c *closeFailer) Close() error {
	c.closed = true
	return errors.New("disk full")
}

func TestWriteJSONReportsCloseError(t *testing.T) {
	w := &closeFailer{}

	err := writeJSON(w, sample)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, w.closed)
	assert.Contains(t, w.String(), models.SegmentFamily)
}
