package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/rpattn/csvgate/internal/domain"
)

func printSummary(w io.Writer, summary domain.RunSummary) {
	accepted, rejected, failed := summary.Counts()
	good, bad := summary.RowTotals()

	fmt.Fprintf(w, "run %s\n", summary.RunID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tVERDICT\tREASON\tGOOD\tBAD\tERROR")
	for _, f := range summary.Files {
		goodRows, badRows := "-", "-"
		if f.Artifacts != nil {
			goodRows = strconv.Itoa(f.Artifacts.GoodRows)
			badRows = strconv.Itoa(f.Artifacts.BadRows)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.Verdict.File.Name, f.Verdict.Label(), string(f.Verdict.Reason), goodRows, badRows, f.ErrorMessage())
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "accepted=%d rejected=%d failed=%d good_rows=%d bad_rows=%d\n",
		accepted, rejected, failed, good, bad)
	if summary.ReportPath != "" {
		fmt.Fprintf(w, "report: %s\n", summary.ReportPath)
	}
}

func printVerdicts(w io.Writer, results []domain.FileResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tVERDICT\tREASON\tDESTINATION\tERROR")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Verdict.File.Name, r.Verdict.Label(), string(r.Verdict.Reason), r.Verdict.Destination, r.ErrorMessage())
	}
	_ = tw.Flush()
}

func printLogEntries(w io.Writer, entries []domain.IngestionLogEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tRUN\tSTAGE\tFILE\tROW\tISSUE\tMESSAGE")
	for _, e := range entries {
		row := "-"
		if e.RowNumber != nil {
			row = strconv.Itoa(*e.RowNumber)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.UTC().Format(time.RFC3339), e.RunID, e.Stage, e.FileName, row, e.IssueType, e.ErrorMessage)
	}
	return tw.Flush()
}
