package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/earworm/difficulty"
	"github.com/jsphweid/earworm/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Rates every simplified file in the output directory",
	Long: `Rates every simplified file in a directory (the output directory by
default), so the levels of each source can be compared side by side.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.Output
		if len(args) == 1 {
			dir = args[0]
		}
		rows, err := analyzeArtifacts(dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%v\n", headStyle.Render(fmt.Sprintf("%-30v %-13v %-16v %7v %9v", "source", "level", "difficulty", "notes", "size")))
		for _, r := range rows {
			fmt.Fprintf(out, "%-30v %-13v %-16v %7v %9v\n",
				r.stem, r.level, fmt.Sprintf("%v (%v)", r.report.Label, r.report.Level), r.report.TotalNotes, humanize.Bytes(uint64(r.size)))
		}
		return nil
	},
}

var artifactName = regexp.MustCompile(`^(.+)_(beginner|intermediate|advanced)\.midi?$`)

type artifactRow struct {
	stem   string
	level  string
	size   int64
	report difficulty.Report
}

// analyzeArtifacts rates the artifacts in dir, ordered by stem and then from
// beginner to advanced. Unreadable artifacts are logged and skipped.
func analyzeArtifacts(dir string) ([]artifactRow, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read dir %v: %w", dir, err)
	}

	var rows []artifactRow
	for _, entry := range entries {
		m := artifactName.FindStringSubmatch(entry.Name())
		if entry.IsDir() || m == nil {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		s, err := midi.ReadMidiFile(path)
		if err != nil {
			logger.Warn("skipping artifact", "path", path, "err", err)
			continue
		}
		rows = append(rows, artifactRow{stem: m[1], level: m[2], size: info.Size(), report: difficulty.Analyse(s)})
	}

	order := make(map[string]int)
	for i, name := range levelNames() {
		order[name] = i
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stem != rows[j].stem {
			return rows[i].stem < rows[j].stem
		}
		return order[rows[i].level] < order[rows[j].level]
	})
	return rows, nil
}
