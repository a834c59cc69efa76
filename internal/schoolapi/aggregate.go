package schoolapi

import "math"

// The dashboard's only client-side computation: simple aggregation
// over records the server returned.

// GradePointAverage is the mean grade point across entries, rounded
// to two decimals. Empty input yields zero.
func GradePointAverage(entries []GradeEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, entry := range entries {
		sum += entry.GradePoint
	}
	return round2(sum / float64(len(entries)))
}

// AttendanceRate is the share of records counted as attended
// (present or late), as a percentage rounded to two decimals.
func AttendanceRate(records []AttendanceRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	attended := 0
	for _, record := range records {
		if record.Status == AttendancePresent || record.Status == AttendanceLate {
			attended++
		}
	}
	return round2(float64(attended) / float64(len(records)) * 100)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
