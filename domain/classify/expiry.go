package classify

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var isoDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsISODate reports whether s is an explicit YYYY-MM-DD date.
func IsISODate(s string) bool {
	return isoDateRE.MatchString(s)
}

var seasonKeywords = []string{"spring", "summer", "fall", "autumn", "winter"}

// InferExpiry applies the deterministic expiry policy to text that
// carries no explicit date. Temporal keywords yield either a concrete
// short window anchored on the message timestamp or a descriptive
// phrase. No temporal signal yields ("", false).
func InferExpiry(text string, ts time.Time) (string, bool) {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "today only", "daily deal", "ends today", "ends tonight"):
		return ts.Format("2006-01-02"), true

	case strings.Contains(lower, "flash sale"):
		// Flash sales run 24-48 hours from the message timestamp.
		return ts.AddDate(0, 0, 1).Format("2006-01-02"), true

	case containsAny(lower, "weekend special", "weekend only", "this weekend"):
		return endOfWeek(ts).Format("2006-01-02"), true

	case containsAny(lower, "this week", "weekly sale", "weekly deal"):
		return endOfWeek(ts).Format("2006-01-02"), true
	}

	for _, season := range seasonKeywords {
		if strings.Contains(lower, season) {
			name := season
			if name == "autumn" {
				name = "fall"
			}
			return fmt.Sprintf("%s%s %d", strings.ToUpper(name[:1]), name[1:], ts.Year()), true
		}
	}

	if containsAny(lower, "limited time", "last chance", "ends soon", "hurry") {
		return "Limited Time", true
	}

	return "", false
}

// endOfWeek returns the Sunday that closes the week of ts. A timestamp
// already on Sunday maps to itself.
func endOfWeek(ts time.Time) time.Time {
	days := (7 - int(ts.Weekday())) % 7
	return ts.AddDate(0, 0, days)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
