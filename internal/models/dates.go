package models

import "time"

const (
	// InputDateLayout is the timestamp format accepted in instructions.
	InputDateLayout = "2006-01-02T15:04:05"
	// StoredDateLayout is the timestamp format kept inside election records.
	StoredDateLayout = "2006-01-02 15:04:05"
)

func FormatStoredDate(t time.Time) string {
	return t.UTC().Format(StoredDateLayout)
}

func ParseStoredDate(s string) (time.Time, error) {
	return time.ParseInLocation(StoredDateLayout, s, time.UTC)
}

func ParseInputDate(s string) (time.Time, error) {
	return time.ParseInLocation(InputDateLayout, s, time.UTC)
}
