package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/pipeline"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/ui"
)

type stageFlags struct {
	dryRun  bool
	publish bool
}

func (f *stageFlags) bind(cmd *cobra.Command, publish bool) {
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "classify and count without writing files")
	if publish {
		cmd.Flags().BoolVar(&f.publish, "publish", false, "upload processed assets to Azure Blob Storage")
	}
}

func (a *app) options(f *stageFlags) (pipeline.RunOptions, error) {
	if f.publish && !a.container.PublishEnabled() {
		return pipeline.RunOptions{}, fmt.Errorf("--publish needs azure.account, azure.key and azure.container")
	}
	return pipeline.RunOptions{DryRun: f.dryRun, Publish: f.publish}, nil
}

func (a *app) distributeCmd() *cobra.Command {
	var f stageFlags
	cmd := &cobra.Command{
		Use:   "distribute",
		Short: "Move drop-zone images into industry asset folders as WebP",
		Long: `Scan the drop zone for <industry>-<section>-<description>.<ext> files and
write each one to <root>/<industry>/assets/images/<industry>-<description>.webp,
bounded to 1920px without enlarging. Drop-zone files are left in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.options(&f)
			if err != nil {
				return err
			}
			s, err := a.container.Pipeline().Distribute(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if s.DropZoneMissing {
				a.printDropZoneHelp(cmd, s)
				return nil
			}
			return a.printSummary(cmd, s)
		},
	}
	f.bind(cmd, true)
	return cmd
}

func (a *app) optimizeCmd() *cobra.Command {
	var f stageFlags
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Write per-category variants next to every categorized image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.options(&f)
			if err != nil {
				return err
			}
			s, err := a.container.Pipeline().Optimize(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printSummary(cmd, s)
		},
	}
	f.bind(cmd, true)
	return cmd
}

func (a *app) rewriteCmd() *cobra.Command {
	var f stageFlags
	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Point template image references at existing optimized variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pl := a.container.Pipeline()
			mappings, err := pl.ExistingMappings()
			if err != nil {
				return err
			}
			s, err := pl.Rewrite(cmd.Context(), mappings, pipeline.RunOptions{DryRun: f.dryRun})
			if err != nil {
				return err
			}
			s.Mappings = mappings
			return a.printSummary(cmd, s)
		},
	}
	f.bind(cmd, false)
	return cmd
}

func (a *app) runCmd() *cobra.Command {
	var f stageFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Optimize every image, then rewrite template references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.options(&f)
			if err != nil {
				return err
			}
			s, err := a.container.Pipeline().Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printSummary(cmd, s)
		},
	}
	f.bind(cmd, true)
	return cmd
}

func (a *app) printDropZoneHelp(cmd *cobra.Command, s pipeline.Summary) {
	out := cmd.OutOrStdout()
	dir := a.cfg.DropZonePath()
	if s.DropZoneCreated {
		fmt.Fprintln(out, ui.FormatInfo("Created drop zone at "+dir))
	} else {
		fmt.Fprintln(out, ui.FormatWarning("Drop zone "+dir+" does not exist"))
	}
	fmt.Fprintln(out, "Add images named <industry>-<section>-<description>.<ext>, for example")
	fmt.Fprintln(out, "  roofing-hero-professional-crew.jpg")
	fmt.Fprintln(out, "and run 'assetpipe distribute' again.")
	fmt.Fprintln(out, ui.FormatMuted("Supported extensions: jpg, jpeg, png, webp"))
}
