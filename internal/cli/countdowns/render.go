package countdowns

import (
	"fmt"
	"io"

	"github.com/julianstephens/daycount/internal/models"
)

// renderList prints one line per countdown followed by the saved count.
func renderList(w io.Writer, list []models.Countdown, showIDs bool) {
	if len(list) == 0 {
		fmt.Fprintln(w, models.Summary(0))
		return
	}
	for _, c := range list {
		idStr := ""
		if showIDs {
			idStr = fmt.Sprintf(" (ID: %s)", c.ID)
		}
		fmt.Fprintf(w, "  %s%s - %s\n", c.Label, idStr, c.Remaining())
		fmt.Fprintf(w, "      %s\n", c.Span())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, models.Summary(len(list)))
}
