package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/pipeline"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/ui"
)

func (a *app) printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printSummary(cmd *cobra.Command, s pipeline.Summary) error {
	if a.jsonOutput {
		return a.printJSON(cmd, s)
	}
	out := cmd.OutOrStdout()

	title := s.Stage
	if s.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(out, ui.FormatTitle(title))

	pairs := [][2]string{
		{"run", s.RunID},
		{"duration", s.Duration().Round(time.Millisecond).String()},
	}
	if s.Stage != pipeline.StageRewrite {
		pairs = append(pairs,
			[2]string{"processed", strconv.Itoa(s.Processed)},
			[2]string{"optimized", strconv.Itoa(s.Optimized)},
			[2]string{"already optimized", strconv.Itoa(s.AlreadyOptimized)},
			[2]string{"skipped", strconv.Itoa(s.Skipped)},
			[2]string{"failed", strconv.Itoa(s.Failed)},
			[2]string{"bytes saved", ui.HumanBytes(s.BytesSaved)},
		)
	}
	if s.Published > 0 || s.PublishFailed > 0 {
		pairs = append(pairs,
			[2]string{"published", strconv.Itoa(s.Published)},
			[2]string{"publish failed", strconv.Itoa(s.PublishFailed)},
		)
	}
	if s.Stage == pipeline.StageRewrite || s.Stage == pipeline.StageRun {
		pairs = append(pairs,
			[2]string{"templates", strconv.Itoa(s.TemplatesScanned)},
			[2]string{"rewritten", strconv.Itoa(s.TemplatesRewritten)},
			[2]string{"replacements", strconv.Itoa(s.Replacements)},
		)
	}
	fmt.Fprint(out, ui.KeyValues(pairs))

	if len(s.Skips) > 0 {
		fmt.Fprintln(out)
		table := ui.NewTable("Skipped", "Reason")
		for _, issue := range s.Skips {
			table.AddRow(issue.Path, issue.Reason)
		}
		fmt.Fprint(out, table.Render())
	}
	if len(s.Failures) > 0 {
		fmt.Fprintln(out)
		table := ui.NewTable("Failed", "Reason")
		for _, issue := range s.Failures {
			table.AddRow(issue.Path, issue.Reason)
		}
		fmt.Fprint(out, table.Render())
	}

	fmt.Fprintln(out)
	if s.HasFailures() {
		fmt.Fprintln(out, ui.FormatWarning("Completed with failures"))
	} else {
		fmt.Fprintln(out, ui.FormatSuccess("Done"))
	}
	return nil
}
