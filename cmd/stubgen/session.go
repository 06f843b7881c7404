package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dhamidi/stubgen/classpath"
	"github.com/dhamidi/stubgen/config"
	"github.com/dhamidi/stubgen/docindex"
	"github.com/dhamidi/stubgen/mirror"
)

// loadConfig reads the configuration and lets the command's flags, when
// given, override the keys they are bound to.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	v, err := config.New(configFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd, bindings); err != nil {
		return nil, err
	}
	return config.Unmarshal(v)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, bindings map[string]string) error {
	for key, flag := range bindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return errors.Newf("no flag %q to bind to %s", flag, key)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind flag %s", flag)
		}
	}
	return nil
}

func openDocs(cfg *config.Config) *docindex.Index {
	if cfg.Docs.Dir == "" {
		return nil
	}
	return docindex.New(docindex.NewDirStore(cfg.Docs.Dir))
}

// openClasspath opens the configured classpath and applies the class list,
// extended with every documented class, when one is configured.
func openClasspath(cfg *config.Config) (*classpath.Classpath, error) {
	if len(cfg.Classpath) == 0 {
		return nil, errors.WithHint(
			errors.New("no classpath configured"),
			"pass --classpath or set classpath in stubgen.toml")
	}
	cp, err := classpath.Open(cfg.Classpath...)
	if err != nil {
		return nil, err
	}
	if cfg.ClassList == "" {
		return cp, nil
	}

	f, err := os.Open(cfg.ClassList)
	if err != nil {
		cp.Close()
		return nil, errors.Wrap(err, "failed to open class list")
	}
	defer f.Close()
	names, err := classpath.ParseClassList(f)
	if err != nil {
		cp.Close()
		return nil, err
	}
	if cfg.Docs.Dir != "" {
		documented, err := docindex.NewDirStore(cfg.Docs.Dir).Names()
		if err != nil {
			cp.Close()
			return nil, err
		}
		names = append(names, documented...)
	}
	cp.Restrict(names)
	return cp, nil
}

// packageRoots returns one handle per configured prefix.
func packageRoots(cp *classpath.Classpath, prefixes []string) ([]mirror.Package, error) {
	var roots []mirror.Package
	for _, prefix := range prefixes {
		p, err := cp.Package(prefix)
		if err != nil {
			return nil, err
		}
		roots = append(roots, p)
	}
	return roots, nil
}

func loadSnapshot(path string) (mirror.Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open snapshot")
	}
	defer f.Close()
	root, err := mirror.LoadSnapshot(f)
	if err != nil {
		return nil, err
	}
	return root, nil
}
