package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"beam-website/internal/app"
	"beam-website/internal/export"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	var (
		outDir      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export every route as static HTML",
		Long: `build renders the home page, every CMS page, every blog index page and every
blog post into <out>/<path>/index.html and copies the static assets alongside.
Routes without content are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			components, err := app.NewComponents(cfg, app.Options{StaticLinks: true})
			if err != nil {
				return err
			}

			builder, err := export.NewBuilder(components.Site, components.Pages, components.Posts, export.Options{
				OutDir:      outDir,
				Static:      app.StaticFS(cfg.StaticDir),
				Concurrency: concurrency,
			})
			if err != nil {
				return err
			}

			summary, err := builder.Build(cmd.Context())
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d pages to %s in %s\n", summary.Written, outDir, summary.Duration.Round(time.Millisecond))
			for _, skipped := range summary.Skipped {
				fmt.Fprintf(out, "  skipped %s (no content)\n", skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "public", "output directory")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "routes rendered in parallel")
	return cmd
}
