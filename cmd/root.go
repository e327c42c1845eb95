package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsphweid/earworm/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	v      = viper.New()
	cfg    *config.Config
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headStyle = lipgloss.NewStyle().Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var rootCmd = &cobra.Command{
	Use:   "earworm",
	Short: "Piano MIDI difficulty analysis and simplification",
	Long: `earworm rates how hard a piano MIDI file is to play and rewrites it
into beginner, intermediate and advanced arrangements.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := bindStoreFlag(v, cmd); err != nil {
			return err
		}
		c, err := config.Load(v, wd)
		if err != nil {
			return err
		}
		cfg = c
		logger = newLogger(cmd.ErrOrStderr(), c)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("output", "o", "", "Output directory for simplified files (default $OUTPUT_PATH or ./out)")
	flags.IntP("concurrency", "j", 0, "Number of files processed at once (default number of CPUs)")
	flags.StringP("format", "f", "text", "Report format (text|json|yaml)")
	flags.BoolP("verbose", "v", false, "Log debug details")
	flags.BoolP("quiet", "q", false, "Only log warnings and errors")

	// unset flags fall through to the config file and defaults
	for _, name := range []string{"output", "concurrency", "format", "verbose", "quiet"} {
		cobra.CheckErr(v.BindPFlag(name, flags.Lookup(name)))
	}
}

// bindStoreFlag binds the --store flag of whichever command runs, since
// several commands declare their own.
func bindStoreFlag(vp *viper.Viper, cmd *cobra.Command) error {
	f := cmd.Flags().Lookup("store")
	if f == nil {
		return nil
	}
	return vp.BindPFlag("store.enabled", f)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newLogger(w io.Writer, c *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case c.Verbose:
		level = slog.LevelDebug
	case c.Quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
