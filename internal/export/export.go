// Package export writes segment summaries to files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
	"github.com/rotisserie/eris"

	"github.com/jengzang/travel-segments-go/internal/models"
)

// Supported formats
const (
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// ErrUnknownFormat is returned for a format other than json or parquet
var ErrUnknownFormat = eris.New("unknown export format")

// TimestampedFilename builds dir/name_YYYYMMDD_HHMMSS.ext
func TimestampedFilename(dir, name, ext string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", name, now.Format("20060102_150405"), ext))
}

// Summary writes the summary into dir in the given format and returns the
// written path
func Summary(dir, format string, summaries []models.SegmentSummary) (string, error) {
	filename := TimestampedFilename(dir, "segment_summary", format, time.Now())
	switch format {
	case FormatJSON:
		return filename, JSON(filename, summaries)
	case FormatParquet:
		return filename, SummaryParquet(filename, summaries)
	default:
		return "", eris.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// JSON writes data as indented JSON, creating the parent folder
func JSON(filename string, data any) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return eris.Wrap(err, "failed to create folder")
	}

	file, err := os.Create(filename)
	if err != nil {
		return eris.Wrap(err, "failed to create file")
	}
	return writeJSON(file, data)
}

// writeJSON encodes data into w and closes it, reporting the close error
// when the encode succeeded
func writeJSON(w io.WriteCloser, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		w.Close()
		return eris.Wrap(err, "failed to write JSON")
	}
	if err := w.Close(); err != nil {
		return eris.Wrap(err, "failed to close file")
	}
	return nil
}

var summarySchema = arrow.NewSchema([]arrow.Field{
	{Name: "segment", Type: arrow.BinaryTypes.String},
	{Name: "user_count", Type: arrow.PrimitiveTypes.Int64},
	{Name: "avg_flight_cost", Type: arrow.PrimitiveTypes.Float64},
	{Name: "avg_hotel_cost", Type: arrow.PrimitiveTypes.Float64},
	{Name: "avg_discount_rate", Type: arrow.PrimitiveTypes.Float64},
	{Name: "avg_success_rate", Type: arrow.PrimitiveTypes.Float64},
	{Name: "avg_weekday_rate", Type: arrow.PrimitiveTypes.Float64},
	{Name: "avg_booking_rate", Type: arrow.PrimitiveTypes.Float64},
	{Name: "recommended_action", Type: arrow.BinaryTypes.String},
}, nil)

// SummaryParquet writes the summary as a snappy-compressed parquet file
func SummaryParquet(filename string, summaries []models.SegmentSummary) error {
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), summarySchema)
	defer builder.Release()

	for _, s := range summaries {
		builder.Field(0).(*array.StringBuilder).Append(s.Segment)
		builder.Field(1).(*array.Int64Builder).Append(int64(s.UserCount))
		builder.Field(2).(*array.Float64Builder).Append(s.AvgFlightCost)
		builder.Field(3).(*array.Float64Builder).Append(s.AvgHotelCost)
		builder.Field(4).(*array.Float64Builder).Append(s.AvgDiscountRate)
		builder.Field(5).(*array.Float64Builder).Append(s.AvgSuccessRate)
		builder.Field(6).(*array.Float64Builder).Append(s.AvgWeekdayRate)
		builder.Field(7).(*array.Float64Builder).Append(s.AvgBookingRate)
		builder.Field(8).(*array.StringBuilder).Append(s.RecommendedAction)
	}

	record := builder.NewRecord()
	defer record.Release()

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return eris.Wrap(err, "failed to create folder")
	}
	file, err := os.Create(filename)
	if err != nil {
		return eris.Wrap(err, "failed to create file")
	}
	defer file.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	writer, err := pqarrow.NewFileWriter(summarySchema, file, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return eris.Wrap(err, "failed to create parquet writer")
	}

	if err := writer.Write(record); err != nil {
		writer.Close()
		return eris.Wrap(err, "failed to write parquet")
	}
	return eris.Wrap(writer.Close(), "failed to close parquet writer")
}
