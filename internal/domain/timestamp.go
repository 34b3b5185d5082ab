package domain

import "time"

// TimestampLayout is the ISO-8601 form used for creation instants. It is
// fixed width, so string order matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000"

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
