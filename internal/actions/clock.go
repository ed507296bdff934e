package actions

import "time"

// TimeOfDay formats now on a 12 hour clock, e.g. "03:04 PM".
func TimeOfDay(now time.Time) string {
	return now.Format("03:04 PM")
}
