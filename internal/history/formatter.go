package history

import (
	"time"

	"github.com/carson-networks/finance-tracker/internal/period"
)

// ChartPoint is the presentation form of a Point.
type ChartPoint struct {
	Date  string `json:"date" doc:"Calendar day, YYYY-MM-DD"`
	Label string `json:"label" doc:"Axis label for the bucket"`
	Value string `json:"value" doc:"Total at end of day, two decimals"`
}

// ToChart converts points to chart points labelled for bucket.
func ToChart(points []Point, bucket period.Bucket) []ChartPoint {
	out := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		out = append(out, ChartPoint{
			Date:  p.Date.Format(time.DateOnly),
			Label: label(p.Date, bucket),
			Value: p.Value.StringFixed(2),
		})
	}
	return out
}

func label(d time.Time, bucket period.Bucket) string {
	switch bucket {
	case period.BucketMonth:
		return d.Format("Jan 2006")
	case period.BucketYear:
		return d.Format("2006")
	}
	return d.Format("Jan 2")
}

// Downsample keeps the last point of every bucket. Points must be ordered oldest first.
func Downsample(points []Point, bucket period.Bucket) []Point {
	if bucket == period.BucketDay || len(points) == 0 {
		return points
	}
	out := make([]Point, 0)
	for i, p := range points {
		if i+1 < len(points) && period.BucketStart(points[i+1].Date, bucket).Equal(period.BucketStart(p.Date, bucket)) {
			continue
		}
		out = append(out, p)
	}
	return out
}
