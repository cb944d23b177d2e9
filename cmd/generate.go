package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cmmoran/tsync/pkg/action/generate"
	"github.com/cmmoran/tsync/pkg/tsync"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

// addOptionFlags registers the flags shared by generate and check.
func addOptionFlags(flags *pflag.FlagSet) {
	flags.StringSliceP("input", "i", []string{}, "rust file or directory to read (repeatable)")
	flags.StringP("output", "o", "", "file to write; a .d.ts suffix selects ambient declarations")
	flags.BoolP("debug", "d", false, "print the result instead of writing it, with verbose diagnostics")
	flags.Bool("enable-const-enums", false, "emit `const enum` for numeric enums")
	flags.StringSliceP("exclude", "x", []string{}, "glob of walked files or directories to skip (repeatable)")
	flags.String("report", "", "write a YAML report of the run to this path")
	flags.Bool("ambient", false, "emit ambient declarations regardless of the output suffix")
	flags.StringP("format", "f", tsync.FormatTypescript, "output format (only typescript)")
}

// loadOptions binds the command's flags to viper, so config files and
// TSYNC_* variables fill whatever the command line leaves unset.
func loadOptions(c *cobra.Command) (*tsync.Options, error) {
	binds := map[string]string{
		"input":              "input",
		"output":             "output",
		"debug":              "debug",
		"enable_const_enums": "enable-const-enums",
		"exclude":            "exclude",
		"report":             "report",
		"ambient":            "ambient",
		"format":             "format",
	}
	for key, flag := range binds {
		if err := viper.BindPFlag(key, c.Flags().Lookup(flag)); err != nil {
			return nil, errors.Wrapf(err, "bind flag %s", flag)
		}
	}

	options := tsync.NewOptions()
	if err := viper.Unmarshal(options); err != nil {
		return nil, errors.Wrap(err, "load options")
	}
	if err := options.Normalize(); err != nil {
		return nil, err
	}
	if options.Debug {
		if l, err := newLogger("debug"); err == nil {
			log = l
		}
	}
	log.Debug("options", zap.Any("options", options))
	return options, nil
}

func NewGenerateCommand() *cobra.Command {
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate typescript declarations",
		Long:  "Read #[tsync] structs, enums, type aliases and consts from Rust sources and write TypeScript declarations",
		RunE: func(c *cobra.Command, args []string) error {
			options, err := loadOptions(c)
			if err != nil {
				return err
			}
			res, err := generate.Generate(fs, options, log)
			if err != nil {
				return err
			}
			printResult(options, res)
			return nil
		},
	}
	addOptionFlags(generateCmd.Flags())

	return generateCmd
}

func printResult(options *tsync.Options, res *generate.Result) {
	if options.Debug {
		pterm.DefaultSection.Println("generated output (dry run)")
		pterm.Println(res.Output)
		pterm.DefaultSection.Println("end of output")
	}
	if len(res.State.Unprocessed) > 0 {
		pterm.Warning.Printf("%d file(s) could not be processed:\n", len(res.State.Unprocessed))
		items := make([]pterm.BulletListItem, 0, len(res.State.Unprocessed))
		for _, p := range res.State.Unprocessed {
			items = append(items, pterm.BulletListItem{Level: 0, Text: p})
		}
		_ = pterm.DefaultBulletList.WithItems(items).Render()
	}
	if res.Written {
		pterm.Success.Printf("Successfully generated %d declaration(s) in %s\n", len(res.State.Emitted), options.Output)
	}
}
