package history

import (
	"fmt"
	"time"

	"github.com/mithrel/marketeer/pkg/api"
)

// DefaultQueryWidth is how much of a query the history list shows.
const DefaultQueryWidth = 80

// TimeAgo formats the age of t relative to now in whole units.
func TimeAgo(now, t time.Time) string {
	mins := int(now.Sub(t) / time.Minute)
	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case mins < 1440:
		return fmt.Sprintf("%dh ago", mins/60)
	default:
		return fmt.Sprintf("%dd ago", mins/1440)
	}
}

// Truncate shortens s to n runes and appends "..." when it was longer.
func Truncate(s string, n int) string {
	if n <= 0 {
		n = DefaultQueryWidth
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// AgentBadges returns labels for the first two agents plus a "+N" badge
// for the rest.
func AgentBadges(agents []string) []string {
	const shown = 2
	out := make([]string, 0, shown+1)
	for i, a := range agents {
		if i == shown {
			out = append(out, fmt.Sprintf("+%d", len(agents)-shown))
			break
		}
		out = append(out, api.AgentType(a).Label())
	}
	return out
}
