package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/classgraph/pkg/cache"
	"github.com/matzehuels/classgraph/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			var count int
			switch cfg.Cache.Backend {
			case config.CacheFile:
				fc, err := cache.NewFileCache(cfg.Cache.Dir)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				if count, err = fc.Clear(); err != nil {
					return fmt.Errorf("clear %s: %w", cfg.Cache.Dir, err)
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Directory: %s", cfg.Cache.Dir)
			case config.CacheRedis:
				rc, err := cache.NewRedisCache(cmd.Context(), cache.RedisOptions{
					Addr:   cfg.Cache.RedisAddr,
					DB:     cfg.Cache.RedisDB,
					Prefix: appName + ":",
				})
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				defer rc.Close()
				if count, err = rc.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("clear redis: %w", err)
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Redis: %s", cfg.Cache.RedisAddr)
			default:
				printInfo("Caching is disabled")
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(cfg.Cache.Dir)
			return nil
		},
	}
}
