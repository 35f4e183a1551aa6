package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/autowire/internal/lint"
)

func newPlanCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [patterns...]",
		Short: "Print the injection order of autowired structs",
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

			for _, plan := range report.Plans {
				printPlan(sess, plan)
			}
			if len(report.Findings) > 0 {
				sess.diag.Warn("%d problems found, run autowire lint for details", len(report.Findings))
			}
			return nil
		},
	}
}

// printPlan lists the fields a struct declares itself, then the fields of
// each embedded struct under its own header
func printPlan(sess *session, plan lint.StructPlan) {
	sess.diag.Section(sess.module.Shorten(plan.Type))
	sess.diag.Indent()
	defer sess.diag.Unindent()

	owner := plan.Type
	for _, f := range plan.Fields {
		if f.Owner != owner {
			if owner != plan.Type {
				sess.diag.Unindent()
			}
			owner = f.Owner
			sess.diag.Subsection("embedded " + sess.module.Shorten(owner))
			sess.diag.Indent()
		}
		sess.diag.List("%s", describe(sess, f))
	}
	if owner != plan.Type {
		sess.diag.Unindent()
	}
}

func describe(sess *session, f lint.FieldPlan) string {
	line := f.Field + ": " + sess.module.Shorten(f.Type)
	if f.Factory != "" {
		line += " from " + sess.module.Shorten(f.Factory)
	}
	return line
}
