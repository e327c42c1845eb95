package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jsphweid/earworm/db"
	"github.com/jsphweid/earworm/difficulty"
	"github.com/jsphweid/earworm/midi"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	analyseCmd.Flags().Bool("store", false, "Also save the report to the report table")
	rootCmd.AddCommand(analyseCmd)
}

var analyseCmd = &cobra.Command{
	Use:     "analyse <file>...",
	Aliases: []string{"analyze"},
	Short:   "Rates the difficulty of midi files",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		for _, path := range args {
			s, err := midi.ReadMidiFile(path)
			if err != nil {
				return err
			}
			r := difficulty.Analyse(s)
			logger.Debug("analysed", "source", path, "level", r.Level)

			if len(args) > 1 && cfg.Format == "text" {
				fmt.Fprintln(cmd.OutOrStdout(), headStyle.Render(path))
			}
			if err := writeReport(cmd.OutOrStdout(), cfg.Format, r); err != nil {
				return err
			}
			if store != nil {
				if err := store.Put(cmd.Context(), path, r); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func writeReport(w io.Writer, format string, r difficulty.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		out, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		_, err := fmt.Fprintln(w, r.String())
		return err
	}
}

// openStore returns nil when the report table is disabled.
func openStore() (*db.ReportStore, error) {
	if !cfg.Store.Enabled {
		return nil, nil
	}
	store, err := db.Connect(cfg.Store.Endpoint, cfg.Store.Region, cfg.Store.Table)
	if err != nil {
		return nil, err
	}
	logger.Debug("storing reports", "endpoint", cfg.Store.Endpoint, "table", cfg.Store.Table)
	return store, nil
}
