package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/inventory"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/ui"
)

func (a *app) inventoryCmd() *cobra.Command {
	var withHTML bool
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Report existing and missing template image references",
		Long: `Scan every template variant for img, source and inline style image
references and write ` + inventory.JSONFile + ` and ` + inventory.MarkdownFile + `
into the report directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := a.container.Scanner().Scan(cmd.Context())
			if err != nil {
				return err
			}
			paths, err := inventory.WriteReports(inv, a.cfg.ReportPath(), withHTML)
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return a.printJSON(cmd, inv)
			}

			out := cmd.OutOrStdout()
			table := ui.NewTable("Industry", "Assets", "Referenced", "Missing", "Unreferenced")
			for i := 1; i <= 4; i++ {
				table.RightAlign[i] = true
			}
			for _, ind := range inv.Industries {
				table.AddRow(ind.Industry,
					fmt.Sprint(ind.Assets), fmt.Sprint(ind.Referenced),
					fmt.Sprint(len(ind.Missing)), fmt.Sprint(len(ind.Unreferenced)))
			}
			fmt.Fprint(out, table.Render())
			fmt.Fprintln(out)
			for _, p := range paths {
				fmt.Fprintln(out, ui.FormatSuccess("Wrote "+p))
			}
			if inv.Missing > 0 {
				fmt.Fprintln(out, ui.FormatWarning(fmt.Sprintf("%d missing image references", inv.Missing)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withHTML, "html", false, "also render the report as HTML")
	return cmd
}
