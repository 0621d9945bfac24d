package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tendant/hybrid-content/pkg/hybridcontent/cache"
	repopg "github.com/tendant/hybrid-content/pkg/hybridcontent/repo/postgres"
)

// NewCacheCommand groups the cache subcommands.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and purge cached entries",
	}
	cmd.AddCommand(newCacheGetCommand())
	cmd.AddCommand(newCachePurgeCommand())
	return cmd
}

func newCacheGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the cached value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cm, err := cfg.BuildCache(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer cm.Close()

			data, ok := cm.GetBytes(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("key %q is not cached", args[0])
			}
			var v any
			if err := json.Unmarshal(data, &v); err != nil {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
}

func newCachePurgeCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "purge [pattern]",
		Short: "Delete every key matching a glob pattern, or a whole category",
		Example: `  hybridctl cache purge 'restaurant:*'
  hybridctl cache purge --category hybrid:menu`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			switch {
			case category != "" && len(args) > 0:
				return errors.New("give either a pattern or --category")
			case category != "":
				c, ok := cache.ParseCategory(category)
				if !ok {
					return fmt.Errorf("unknown category %q", category)
				}
				pattern = c.Pattern()
			case len(args) == 1:
				pattern = args[0]
			default:
				return errors.New("a pattern or --category is required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cm, err := cfg.BuildCache(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer cm.Close()

			res, err := cm.DeletePattern(cmd.Context(), pattern)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %q: %d distributed, %d local\n", pattern, res.Distributed, res.Local)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "cache category, e.g. restaurant or hybrid:restaurant")
	return cmd
}

// NewRestaurantCommand resolves restaurant views.
func NewRestaurantCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restaurant",
		Short: "Resolve restaurant views",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <external-id>",
		Short: "Print the hybrid view of a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			comps, err := cfg.Build(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer comps.Close()

			view, err := comps.Resolver.GetRestaurantComplete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if view == nil {
				return fmt.Errorf("restaurant %q not found", args[0])
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	})
	return cmd
}

// NewMenuCommand resolves menu views.
func NewMenuCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Resolve menu views",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <restaurant-external-id>",
		Short: "Print the hybrid menu of a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			comps, err := cfg.Build(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer comps.Close()

			menu, err := comps.Resolver.GetMenuComplete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if menu == nil {
				return fmt.Errorf("restaurant %q not found", args[0])
			}
			return printJSON(cmd.OutOrStdout(), menu)
		},
	})
	return cmd
}

// NewContentCommand checks and prepares the content store.
func NewContentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Content store maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ping",
		Short: "Verify the content store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.DatabaseType != "postgres" {
				fmt.Fprintln(cmd.OutOrStdout(), "content store: memory (nothing to ping)")
				return nil
			}
			comps, err := cfg.Build(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer comps.Close()

			if err := comps.ContentStore.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("content store ping failed: %w", err)
			}
			stat := comps.ContentStore.Stat()
			fmt.Fprintf(cmd.OutOrStdout(), "content store: ok (%d/%d connections)\n", stat.TotalConns(), stat.MaxConns())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create missing content tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.DatabaseType != "postgres" {
				return errors.New("migrate requires a postgres content store")
			}
			comps, err := cfg.Build(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer comps.Close()

			if err := repopg.New(comps.ContentStore).Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "content store: %d tables ready\n", len(repopg.Tables))
			return nil
		},
	})

	return cmd
}
