package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/keysync/internal/content"
	"github.com/HendryAvila/keysync/internal/resolver"
)

// errNoMatch is returned when a lookup finds nothing, so scripts can test
// the exit status.
var errNoMatch = errors.New("no match")

func (c *cli) normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize KEY...",
		Short: "Print the canonical key of each spelling",
		Long: `Print the canonical, root-relative key of each argument, one per line.
Logical addresses are printed unchanged; use resolve to look them up.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.engine()
			if err != nil {
				return err
			}
			for _, key := range args {
				fmt.Fprintln(cmd.OutOrStdout(), e.NormalizeKey(key))
			}
			return nil
		},
	}
}

func (c *cli) resolveCmd() *cobra.Command {
	var (
		showContent bool
		format      string
	)
	cmd := &cobra.Command{
		Use:   "resolve ADDRESS",
		Short: "Resolve an address to its canonical key",
		Long: `Resolve a logical address or any path spelling to its canonical key.

Exits non-zero when a logical address is not registered. With --content the
document is printed as JSON in the requested format.

Examples:
  keysync resolve abstract://standard:registry
  keysync resolve standard:registry --content --format checklist`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.engine()
			if err != nil {
				return err
			}
			canonical := e.ResolveToCanonical(args[0])
			if canonical == "" || resolver.IsLogicalAddress(canonical) {
				return fmt.Errorf("%s: %w", args[0], errNoMatch)
			}
			if !showContent {
				fmt.Fprintln(cmd.OutOrStdout(), canonical)
				return nil
			}

			src := content.FileSource{Resolver: e, MaxBytes: c.cfg.Content.MaxDocumentBytes}
			doc, err := src.Document(cmd.Context(), canonical)
			if err != nil {
				return err
			}
			return writeJSON(cmd, content.Render(doc, format))
		},
	}
	cmd.Flags().BoolVar(&showContent, "content", false, "print the document instead of its key")
	cmd.Flags().StringVarP(&format, "format", "f", content.FormatFull, "content format: full, summary or checklist")
	return cmd
}

func (c *cli) physicalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "physical ADDRESS",
		Short: "Print the absolute file path an address resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.engine()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.ResolveToPhysical(args[0]))
			return nil
		},
	}
}

func (c *cli) aliasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aliases KEY",
		Short: "List every spelling of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.engine()
			if err != nil {
				return err
			}
			aliases := e.GetAllAliases(args[0])
			if len(aliases) == 0 {
				return fmt.Errorf("%q: %w", args[0], errNoMatch)
			}
			for _, a := range aliases {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return nil
		},
	}
}

func (c *cli) findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find QUERY CANDIDATE...",
		Short: "Find the candidate that denotes the same document as QUERY",
		Long: `Print the candidate, as spelled, that denotes the same document as QUERY.
A filename shared by more than one document matches nothing.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.engine()
			if err != nil {
				return err
			}
			match, ok := e.FindByAnyKey(args[0], args[1:])
			if !ok {
				return fmt.Errorf("%s: %w", args[0], errNoMatch)
			}
			fmt.Fprintln(cmd.OutOrStdout(), match)
			return nil
		},
	}
}
