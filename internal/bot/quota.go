package bot

import (
	"strings"
	"time"
)

// The backend rejects joins past the hourly session quota with this
// text in the error message.
const hourlyQuotaText = "hourly sessions limit exceeded"

func isQuotaExceeded(message string) bool {
	return strings.Contains(strings.ToLower(message), hourlyQuotaText)
}

// nextQuotaWake is the next top of the hour plus one minute: the quota
// window resets on the hour and the extra minute absorbs clock skew
// between the bot and the backend.
func nextQuotaWake(now time.Time) time.Time {
	return now.Truncate(time.Hour).Add(time.Hour + time.Minute)
}
