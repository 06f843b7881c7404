package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dhamidi/stubgen/config"
	"github.com/dhamidi/stubgen/generate"
	"github.com/dhamidi/stubgen/mirror"
	"github.com/dhamidi/stubgen/stubtree"
	"github.com/dhamidi/stubgen/watch"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write .pyi stubs for the configured packages",
		Long: `Generate walks every configured package prefix, reconciles the classes it
finds with the documentation records, and writes one .pyi per class plus
an __init__.pyi per package below the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"classpath":         "classpath",
				"class_list":        "class-list",
				"docs.dir":          "docs",
				"docs.plain_text":   "plain-text",
				"output.dir":        "out",
				"generate.prefix":   "prefix",
				"generate.snapshot": "snapshot",
			})
			if err != nil {
				return err
			}
			if err := runGenerate(cmd, cfg); err != nil {
				return err
			}
			if !watchInputs {
				return nil
			}
			return watchGenerate(cmd, cfg)
		},
	}

	cmd.Flags().StringSlice("classpath", nil, "directories and jar files to read classes from")
	cmd.Flags().String("class-list", "", "only generate the classes named in this file")
	cmd.Flags().String("docs", "", "directory of JSON documentation records")
	cmd.Flags().Bool("plain-text", false, "convert javadoc markup in docstrings to plain text")
	cmd.Flags().StringP("out", "o", "", "output directory")
	cmd.Flags().StringSlice("prefix", nil, "package prefixes to generate")
	cmd.Flags().String("snapshot", "", "read the reflection listing from a snapshot instead of the classpath")
	cmd.Flags().BoolVarP(&watchInputs, "watch", "w", false, "regenerate whenever the classpath, docs or snapshot change")

	return cmd
}

var watchInputs bool

// watchGenerate reruns the generation on every change to its inputs until
// interrupted.
func watchGenerate(cmd *cobra.Command, cfg *config.Config) error {
	paths := []string{cfg.Docs.Dir}
	if cfg.Generate.Snapshot != "" {
		paths = append(paths, cfg.Generate.Snapshot)
	} else {
		paths = append(paths, cfg.ClassList)
		paths = append(paths, cfg.Classpath...)
	}
	w, err := watch.New(paths)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	fmt.Fprintln(cmd.OutOrStdout(), "watching for changes, press Ctrl-C to stop")
	return w.Run(ctx, func() error { return runGenerate(cmd, cfg) })
}

func runGenerate(cmd *cobra.Command, cfg *config.Config) error {
	writer := stubtree.NewWriter(cfg.Output.Dir)
	writer.CompatShim = cfg.Output.CompatShim
	g := generate.New(openDocs(cfg), cfg.Docs.PlainText, writer)

	var roots []mirror.Package
	var builtins []mirror.Class
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
		if cfg.Builtins.Module != "" {
			for _, name := range cfg.Builtins.Classes {
				c, err := cp.Class(name)
				if err != nil {
					return err
				}
				builtins = append(builtins, c)
			}
		}
	}

	n, err := g.Packages(roots)
	if err != nil {
		return err
	}

	if cfg.Builtins.Module != "" {
		variables, err := cfg.Builtins.VariableTypes()
		if err != nil {
			return err
		}
		err = g.WriteBuiltins(generate.Builtins{
			Module:    cfg.Builtins.Module,
			Classes:   builtins,
			Names:     cfg.Builtins.Names,
			Variables: variables,
		})
		if err != nil {
			return err
		}
		n++
	}

	stats := g.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files to %s (%d classes, %d undocumented, %d members skipped)\n",
		n, cfg.Output.Dir, stats.Classes, len(stats.Undocumented), stats.SkippedTotal())
	return nil
}
