package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"beam-website/pkg/cache"
	"beam-website/pkg/utils"
)

var errCacheDisabled = errors.New("page cache is disabled, set ENABLE_CACHE=true")

func newPurgeCacheCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-cache [path...]",
		Short: "Drop cached pages so the next request renders fresh content",
		Long: `purge-cache removes rendered pages from the redis page cache. With no
arguments every cached page is dropped; otherwise only the given paths are.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if !cfg.EnableCache {
				return errCacheDisabled
			}

			c, err := cache.NewCache(cfg.RedisURL, true)
			if err != nil {
				return fmt.Errorf("failed to connect to page cache: %w", err)
			}
			defer c.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				if err := c.InvalidatePages(ctx); err != nil {
					return fmt.Errorf("failed to purge page cache: %w", err)
				}
				fmt.Fprintln(out, "Purged every cached page")
				return nil
			}

			for _, path := range args {
				path = utils.NormalizePath(path)
				if err := c.InvalidatePage(ctx, path); err != nil {
					return fmt.Errorf("failed to purge %s: %w", path, err)
				}
				fmt.Fprintf(out, "Purged %s\n", path)
			}
			return nil
		},
	}
}
