package utils

import (
	"time"
)

const (
	timestampLayout = "20060102150405"
	scheduleLayout  = "01022006"
)

// GenerateTimestamp formats now as YYYYMMDDHHMMSS.
func GenerateTimestamp() string {
	return FormatTimestamp(time.Now())
}

func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// FormatScheduleDate renders dates the recurring REST API expects (MMDDYYYY).
func FormatScheduleDate(date time.Time) string {
	return date.Format(scheduleLayout)
}

// ParseScheduleDate accepts MMDDYYYY or an RFC 3339 timestamp. Empty input
// yields nil.
func ParseScheduleDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{scheduleLayout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
