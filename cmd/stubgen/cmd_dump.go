package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/dhamidi/stubgen/docindex"
	"github.com/dhamidi/stubgen/extract"
	"github.com/dhamidi/stubgen/format"
	"github.com/dhamidi/stubgen/javadoc"
)

func newDumpCmd() *cobra.Command {
	var dumpFormat string

	cmd := &cobra.Command{
		Use:   "dump <class>",
		Short: "Print the extracted model of one class",
		Long: `Dump extracts a single class, given by its dotted binary name such as
java.util.Map$Entry, and prints it as a stub or as its model.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"classpath":       "classpath",
				"docs.dir":        "docs",
				"docs.plain_text": "plain-text",
			})
			if err != nil {
				return err
			}
			enc, err := format.NewEncoder(dumpFormat, cmd.OutOrStdout())
			if err != nil {
				return errors.WithHint(err, "expected one of "+strings.Join(format.Names, ", "))
			}

			cp, err := openClasspath(cfg)
			if err != nil {
				return err
			}
			defer cp.Close()

			name := args[0]
			c, err := cp.Class(name)
			if err != nil {
				return err
			}

			docs := openDocs(cfg)
			var doc *docindex.ClassDoc
			if docs != nil {
				doc, err = docs.ForClass(strings.ReplaceAll(name, "$", "."))
				if err != nil && !errors.Is(err, docindex.ErrDocumentationNotFound) {
					return err
				}
			}

			e := extract.NewExtractor(docs, nil)
			if cfg.Docs.PlainText {
				e.Docstring = javadoc.PlainText
			}
			model, err := e.ExtractClass(c, doc)
			if err != nil {
				return err
			}
			return enc.Encode(model)
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "stub", "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.Flags().StringSlice("classpath", nil, "directories and jar files to read classes from")
	cmd.Flags().String("docs", "", "directory of JSON documentation records")
	cmd.Flags().Bool("plain-text", false, "convert javadoc markup in docstrings to plain text")

	return cmd
}
