package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

func writeText(d *document, now time.Time, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(d.title))
	if d.subtitle != "" {
		fmt.Fprintln(tw, d.subtitle)
	}
	fmt.Fprintf(tw, "Generated %s\n", now.Format("2006-01-02 15:04 MST"))
	for _, s := range d.sections {
		fmt.Fprintf(tw, "\n%s\n", strings.ToUpper(s.title))
		for _, l := range s.lines {
			label := l.label
			if l.emphasis {
				label = "* " + label
			}
			fmt.Fprintf(tw, "  %s\t%s\n", label, l.display())
		}
	}
	if len(d.notes) > 0 {
		fmt.Fprintln(tw)
		for _, n := range d.notes {
			fmt.Fprintf(tw, "Note: %s\n", n)
		}
	}
	return tw.Flush()
}
