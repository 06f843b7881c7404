package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/stubgen/generate"
	"github.com/dhamidi/stubgen/lsp"
	"github.com/dhamidi/stubgen/mirror"
	"github.com/dhamidi/stubgen/stubtree"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `The server extracts the configured packages once at startup and answers
completion and hover requests for dotted names in open documents.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"classpath":         "classpath",
				"docs.dir":          "docs",
				"generate.prefix":   "prefix",
				"generate.snapshot": "snapshot",
			})
			if err != nil {
				return err
			}

			var roots []mirror.Package
			if cfg.Generate.Snapshot != "" {
				root, err := loadSnapshot(cfg.Generate.Snapshot)
				if err != nil {
					return err
				}
				roots = []mirror.Package{root}
			} else {
				cp, err := openClasspath(cfg)
				if err != nil {
					return err
				}
				defer cp.Close()
				if roots, err = packageRoots(cp, cfg.Generate.Prefix); err != nil {
					return err
				}
			}

			g := generate.New(openDocs(cfg), true, stubtree.NewWriter(cfg.Output.Dir))
			models, err := g.Extract(roots)
			if err != nil {
				return err
			}
			return lsp.NewServer(lsp.NewCatalog(models), version).RunStdio()
		},
	}

	cmd.Flags().StringSlice("classpath", nil, "directories and jar files to read classes from")
	cmd.Flags().String("docs", "", "directory of JSON documentation records")
	cmd.Flags().StringSlice("prefix", nil, "package prefixes to serve")
	cmd.Flags().String("snapshot", "", "read the reflection listing from a snapshot instead of the classpath")

	return cmd
}
