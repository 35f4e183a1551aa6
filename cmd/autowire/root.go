package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toyz/autowire/internal/diagnostics"
	"github.com/toyz/autowire/internal/gomod"
	"github.com/toyz/autowire/internal/lint"
	"github.com/toyz/autowire/pkg/autowire"
)

// defaultConfigFile is read from the working directory when --config is not given
const defaultConfigFile = ".autowire.yaml"

// errFindings makes the process exit with status 1 after the report was printed
var errFindings = errors.New("autowire declarations have problems")

// settings are the flags shared by every command
type settings struct {
	configPath string
	dir        string
	strict     bool
	tests      bool
	verbose    bool
	quiet      bool
}

// session is what a command runs with once flags and config are read
type session struct {
	diag   *diagnostics.System
	opts   lint.Options
	module *gomod.Module
}

func newRootCmd() *cobra.Command {
	s := &settings{}

	root := &cobra.Command{
		Use:           "autowire",
		Short:         "Check struct tag autowiring declarations",
		Long:          "Statically checks autowire struct tags and prints the injection plan of every autowired struct",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "config file (defaults to "+defaultConfigFile+" when present)")
	flags.StringVarP(&s.dir, "dir", "C", "", "directory to resolve package patterns from")
	flags.BoolVar(&s.strict, "strict", true, "report unexported autowired fields")
	flags.BoolVar(&s.tests, "tests", false, "include test files")
	flags.BoolVarP(&s.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&s.quiet, "quiet", "q", false, "only show errors")

	root.AddCommand(newLintCmd(s), newPlanCmd(s), newVersionCmd())
	return root
}

// open reads the config and builds the session of cmd
func (s *settings) open(cmd *cobra.Command) (*session, error) {
	diag := diagnostics.ForFlags(s.quiet, s.verbose)
	if out := cmd.OutOrStdout(); out != os.Stdout {
		diag.SetOutput(out, cmd.ErrOrStderr())
	}

	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}

	strict := s.strict
	if cfg != nil && cfg.Strict != nil && !cmd.Flags().Changed("strict") {
		strict = *cfg.Strict
	}

	dir := s.dir
	if dir == "" {
		dir = "."
	}
	module, err := gomod.Find(dir)
	if err != nil {
		diag.Verbose("module path unknown: %v", err)
	}

	diag.Verbose("strict mode: %t", strict)
	if module != nil {
		diag.Verbose("module: %s", module.Path)
	}

	return &session{
		diag:   diag,
		module: module,
		opts: lint.Options{
			Dir:    s.dir,
			Strict: strict,
			Tests:  s.tests,
			Ignore: ignored(cfg),
		},
	}, nil
}

func (s *settings) loadConfig() (*autowire.Config, error) {
	path := s.configPath
	if path == "" {
		path = filepath.Join(s.dir, defaultConfigFile)
		if _, err := os.Stat(path); err != nil {
			return nil, nil
		}
	}
	cfg, err := autowire.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// ignored lists the type names the config keeps out of plans
func ignored(cfg *autowire.Config) []string {
	if cfg == nil {
		return nil
	}
	names := append([]string(nil), cfg.Ignore...)
	if cfg.Base != "" {
		names = append(names, cfg.Base)
	}
	return names
}
