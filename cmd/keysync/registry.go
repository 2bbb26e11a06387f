package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/keysync/internal/content"
	"github.com/HendryAvila/keysync/internal/resolver"
)

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Build the registry and print its statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.engine()
			if err != nil {
				return err
			}
			if err := e.Build(cmd.Context()); err != nil {
				return err
			}
			return writeJSON(cmd, e.Statistics())
		},
	}
}

func (c *cli) indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Copy every registered document into the content store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.Content.Enabled {
				return fmt.Errorf("content store is disabled (content.enabled: false)")
			}
			e, err := c.engine()
			if err != nil {
				return err
			}
			store, err := content.New(c.cfg.StoreConfig())
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := content.NewIndexer(e, store, c.logger.With("component", "indexer")).Index(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, res)
		},
	}
}

func (c *cli) kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "Print the effective folder-keyword kind table as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := c.cfg.KindRules()
			if err != nil {
				return err
			}
			data, err := resolver.MarshalKindRules(rules)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
