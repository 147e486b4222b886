package format

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mithrel/marketeer/internal/history"
	"github.com/mithrel/marketeer/pkg/api"
)

// WritePlainRemoteHistory lists the service's own request log, newest first.
// The service returns it oldest first.
func WritePlainRemoteHistory(w io.Writer, page api.HistoryPage, headers bool, now time.Time) error {
	items := remoteItems(page)
	n := len(items)
	if headers {
		if _, err := fmt.Fprintf(w, "Showing %s of %s requests on the server\n\n",
			humanize.Comma(int64(n)), humanize.Comma(int64(page.TotalRequests))); err != nil {
			return err
		}
	}
	return WritePlainHistory(w, items, headers, now)
}

func WriteJSONRemoteHistory(w io.Writer, page api.HistoryPage, indent bool) error {
	return WriteJSONHistory(w, remoteItems(page), indent)
}

func remoteItems(page api.HistoryPage) []history.Item {
	items := make([]history.Item, 0, len(page.RecentRequests))
	for i := len(page.RecentRequests) - 1; i >= 0; i-- {
		r := page.RecentRequests[i]
		items = append(items, history.Item{ID: r.RequestID, Result: r})
	}
	return items
}
