package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mithrel/marketeer/pkg/api"
)

var agentsHeader = "NAME\tDESCRIPTION\tCAPABILITIES\n"

// WritePlainAgents lists the agents the service offers.
func WritePlainAgents(w io.Writer, agents []api.AgentInfo, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, agentsHeader)
	}
	for _, a := range agents {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", esc(a.Name), esc(a.Description), esc(strings.Join(a.Capabilities, ", ")))
	}
	return tw.Flush()
}

func WriteJSONAgents(w io.Writer, agents []api.AgentInfo, indent bool) error {
	if agents == nil {
		agents = []api.AgentInfo{}
	}
	return newEncoder(w, indent).Encode(agents)
}

// WritePlainHealth writes a one-line status, e.g. "healthy v1.0.0 (checked 3 minutes ago)".
func WritePlainHealth(w io.Writer, h api.Health, now time.Time) error {
	line := h.Status
	if h.Version != "" {
		line += " v" + strings.TrimPrefix(h.Version, "v")
	}
	if !h.Timestamp.IsZero() {
		line += " (checked " + humanize.RelTime(h.Timestamp, now, "ago", "from now") + ")"
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
