package cmd

import (
	"fmt"

	"github.com/jsphweid/earworm/file"
	"github.com/jsphweid/earworm/midi"
	"github.com/jsphweid/earworm/sample"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sampleCmd)
}

var sampleCmd = &cobra.Command{
	Use:   "sample <out.mid>",
	Short: "Writes a small two hand demo file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := midi.EncodeBytes(sample.Demo())
		if err != nil {
			return err
		}
		if err := file.WriteAtomic(args[0], data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %v\n", args[0])
		return nil
	},
}
