package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/earworm/batch"
	"github.com/jsphweid/earworm/util"
	"github.com/spf13/cobra"
)

func init() {
	simplifyCmd.Flags().Int("max", 0, "Process at most this many files (0 for all)")
	simplifyCmd.Flags().Bool("store", false, "Also save each report to the report table")
	rootCmd.AddCommand(simplifyCmd)
}

var simplifyCmd = &cobra.Command{
	Use:   "simplify <file|dir|glob>...",
	Short: "Writes beginner, intermediate and advanced versions of midi files",
	Long: `Writes <stem>_beginner, <stem>_intermediate and <stem>_advanced next to each
other in the output directory. Directories are searched recursively and
arguments may be globs such as 'songs/**/*.mid'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxNum, _ := cmd.Flags().GetInt("max")

		paths, err := util.GatherMidiPaths(args, maxNum)
		if err != nil {
			return err
		}
		runner, err := newRunner()
		if err != nil {
			return err
		}

		jobs := make([]batch.Job, len(paths))
		for i, p := range paths {
			jobs[i] = batch.Job{Source: p, OutDir: cfg.Output}
		}
		results := runner.RunAll(cmd.Context(), jobs)

		var failed int
		for _, res := range results {
			printResult(cmd.OutOrStdout(), res)
			if res.Err != nil || res.Produced() < len(res.Levels) {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%v of %v files were not fully simplified", failed, len(results))
		}
		return nil
	},
}

func newRunner() (*batch.Runner, error) {
	runner, err := batch.New(cfg.Simplify, cfg.Concurrency, logger)
	if err != nil {
		return nil, err
	}
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	if store != nil {
		runner.Sink = store
	}
	return runner, nil
}

func printResult(w io.Writer, res batch.Result) {
	if res.Err != nil {
		fmt.Fprintf(w, "%v %v\n  %v\n", failStyle.Render("✗"), headStyle.Render(res.Source), res.Err)
		return
	}

	elapsed := durafmt.Parse(res.Elapsed).LimitFirstN(2).String()
	fmt.Fprintf(w, "%v  %v (level %v/10)  %v\n",
		headStyle.Render(res.Source), res.Report.Label, res.Report.Level, dimStyle.Render(elapsed))
	for _, l := range res.Levels {
		if l.Err != nil {
			fmt.Fprintf(w, "  %v %-12v %v\n", failStyle.Render("✗"), l.Level, l.Err)
			continue
		}
		fmt.Fprintf(w, "  %v %-12v %v %v\n", okStyle.Render("✓"), l.Level, l.Path, dimStyle.Render(humanize.Bytes(uint64(l.Bytes))))
	}
}
