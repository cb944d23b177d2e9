package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cmmoran/tsync/pkg/action/check"
)

func init() {
	rootCmd.AddCommand(NewCheckCommand())
}

func NewCheckCommand() *cobra.Command {
	var checkCmd = &cobra.Command{
		Use:   "check",
		Short: "check generated declarations are current",
		Long:  "Regenerate in memory and compare with the existing output file; exits non-zero when they differ",
		RunE: func(c *cobra.Command, args []string) error {
			options, err := loadOptions(c)
			if err != nil {
				return err
			}
			diff, err := check.Check(fs, options, log)
			if diff != "" {
				pterm.DefaultSection.Println("diff (-current +generated)")
				pterm.Println(diff)
			}
			if err != nil {
				return err
			}
			pterm.Success.Printf("%s is up to date\n", options.Output)
			return nil
		},
	}
	addOptionFlags(checkCmd.Flags())

	return checkCmd
}
