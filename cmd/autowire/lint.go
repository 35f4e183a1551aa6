package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/autowire/internal/lint"
)

func newLintCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [patterns...]",
		Short: "Report invalid autowire declarations",
		Long:  "Loads the packages matching the patterns and reports miscased tags, unexported fields in strict mode, malformed arguments and references that cannot resolve",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := s.open(cmd)
			if err != nil {
				return err
			}
			report, err := lint.Run(cmd.Context(), sess.opts, args...)
			if err != nil {
				sess.diag.Error("%v", err)
				return err
			}

			for _, pkg := range report.Packages {
				sess.diag.Verbose("checked %s", sess.module.Shorten(pkg))
			}
			for _, f := range report.Findings {
				sess.diag.Error("%s: [%s] %s", f.Position, f.Code(), f.Err.Error())
			}

			stats := map[string]any{
				"Packages":  len(report.Packages),
				"Autowired": len(report.Plans),
				"Findings":  len(report.Findings),
			}
			for code, n := range report.CountByCode() {
				stats[code] = n
			}
			sess.diag.Summary("Lint complete", stats)

			if report.HasFindings() {
				return errFindings
			}
			sess.diag.Success("no problems found")
			return nil
		},
	}
}
