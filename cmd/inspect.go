package cmd

import (
	"fmt"

	"github.com/jsphweid/earworm/midi"
	"github.com/jsphweid/earworm/model"
	"github.com/spf13/cobra"
)

func init() {
	inspectCmd.Flags().Bool("notes", false, "Print paired notes with durations instead of raw events")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Prints the decoded events of a midi file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		if notes, _ := cmd.Flags().GetBool("notes"); notes {
			inspectNotes(cmd, s)
			return nil
		}
		inspect(cmd, s)
		return nil
	},
}

func inspect(cmd *cobra.Command, s model.Stream) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ticks per beat: %v\n", s.TicksPerBeat)
	fmt.Fprintf(out, "tempo: %v us/beat\n", s.Tempo())
	fmt.Fprintf(out, "duration: %.1fs\n", s.Duration())
	for i, t := range s.Tracks {
		fmt.Fprintln(out, headStyle.Render(fmt.Sprintf("track %v (%v events, end %v)", i, len(t.Events), t.End)))
		for _, e := range model.SortedByTick(t.Events) {
			switch e.Kind {
			case model.NoteStart, model.NoteStop:
				fmt.Fprintf(out, "%8v  %-10v ch %-2v pitch %-3v vel %v\n", e.Tick, e.Kind, e.Channel, e.Pitch, e.Velocity)
			case model.Tempo:
				fmt.Fprintf(out, "%8v  %-10v %v us/beat\n", e.Tick, e.Kind, e.TempoMicros)
			default:
				fmt.Fprintf(out, "%8v  %-10v % X\n", e.Tick, e.Kind, e.Raw)
			}
		}
	}
}

func inspectNotes(cmd *cobra.Command, s model.Stream) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headStyle.Render(fmt.Sprintf("%8v %8v %3v %5v %3v", "onset", "duration", "ch", "pitch", "vel")))
	for _, n := range s.Notes() {
		fmt.Fprintf(out, "%8v %8v %3v %5v %3v\n", n.Onset, n.Duration, n.Channel, n.Pitch, n.Velocity)
	}
}
