package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/ui"
)

func (a *app) classifyCmd() *cobra.Command {
	var industry string
	cmd := &cobra.Command{
		Use:   "classify <file>...",
		Short: "Print metrics and classification for image files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := a.container.Service()
			reports := make([]*models.AssetReport, 0, len(args))
			for _, path := range args {
				report, err := svc.ClassifyFile(cmd.Context(), path, industry)
				if err != nil {
					return err
				}
				reports = append(reports, report)
			}

			if a.jsonOutput {
				return a.printJSON(cmd, reports)
			}

			table := ui.NewTable("File", "Category", "Source", "Content", "Formats", "Warnings")
			for _, r := range reports {
				c := r.Classification
				warnings := fmt.Sprintf("%d", len(r.Warnings))
				if c.DecodeError != "" {
					warnings = "undecodable"
				}
				table.AddRow(r.Path, string(c.Category), c.CategorySource, string(c.ContentType),
					strings.Join(c.Formats, ","), warnings)
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&industry, "industry", "", "industry slug for allowlist matching (default: parsed from the filename)")
	return cmd
}
