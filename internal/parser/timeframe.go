package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/auspex/internal/models"
)

var withinMonthsPattern = regexp.MustCompile(`within (\d+) months?`)

// TimeframeNormalizer computes the explicit/implicit date window for a post.
type TimeframeNormalizer struct{}

// Normalize evaluates the timeframe rules first-match-wins against the
// lower-cased text. On a match the window is explicit: start echoes the
// createdAt string verbatim and end is the computed ISO timestamp; an
// explanatory note is appended. Without a match (or when createdAt cannot be
// parsed) the window is implicit and both bounds are nil.
func (TimeframeNormalizer) Normalize(text, createdAt string, notes *[]string) models.Timeframe {
	lower := strings.ToLower(text)

	postDate, err := time.Parse(time.RFC3339, createdAt)
	if err == nil {
		postDate = postDate.UTC()

		switch {
		case strings.Contains(lower, "end of year") || strings.Contains(lower, "eoy"):
			end := fmt.Sprintf("%d-12-31T23:59:59Z", postDate.Year())
			*notes = append(*notes, "End of year converted to December 31st")
			return explicitTimeframe(createdAt, end)

		case strings.Contains(lower, "next month"):
			end := endOfDayAfterMonths(postDate, 1)
			*notes = append(*notes, "Next month calculated from post date")
			return explicitTimeframe(createdAt, end)

		case withinMonthsPattern.MatchString(lower):
			m := withinMonthsPattern.FindStringSubmatch(lower)
			months, convErr := strconv.Atoi(m[1])
			if convErr == nil {
				end := endOfDayAfterMonths(postDate, months)
				*notes = append(*notes, fmt.Sprintf("Timeframe 'within %d months' normalized to %s", months, end))
				return explicitTimeframe(createdAt, end)
			}

		case strings.Contains(lower, "by christmas"):
			end := fmt.Sprintf("%d-12-25T23:59:59Z", postDate.Year())
			*notes = append(*notes, "Christmas converted to December 25th")
			return explicitTimeframe(createdAt, end)

		case strings.Contains(lower, "até o fim do ano"):
			end := fmt.Sprintf("%d-12-31T23:59:59Z", postDate.Year())
			*notes = append(*notes, "End of year converted to December 31st")
			return explicitTimeframe(createdAt, end)
		}
	}

	*notes = append(*notes, "No specific timeframe mentioned")
	return models.Timeframe{Explicit: false}
}

func explicitTimeframe(start, end string) models.Timeframe {
	return models.Timeframe{
		Explicit: true,
		Start:    &start,
		End:      &end,
	}
}

// endOfDayAfterMonths advances the month index without day clamping
// (time.AddDate normalization: Jan 31 + 1 month rolls into March) and pins
// the time to the end of the resulting UTC day.
func endOfDayAfterMonths(postDate time.Time, months int) string {
	future := postDate.AddDate(0, months, 0)
	return future.Format("2006-01-02") + "T23:59:59Z"
}
