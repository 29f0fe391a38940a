package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netsentinel/netsentinel/internal/ui"
)

// Global flags
var (
	cfgFile     string
	backendFlag string
	sshFlag     string
	brokerFlag  string
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "netsentinel",
	Short: "Network quality dashboard for the netsentinel backend",
	Long: `netsentinel watches connection quality through a monitoring backend.

With no subcommand it opens the interactive dashboard: live latency, history,
Wi-Fi radar, diagnostics and settings. The subcommands print the same data
once, for scripts and quick checks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./netsentinel.yaml or ~/.config/netsentinel/config.yaml)")
	pf.StringVar(&backendFlag, "backend", "", "backend URL, overrides backend.url")
	pf.StringVar(&sshFlag, "ssh", "", "reach the backend through this SSH host, overrides backend.ssh")
	pf.StringVar(&brokerFlag, "broker", "", "MQTT broker for overlay updates, overrides push.broker")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		var silent errSilent
		if stderrors.As(err, &silent) {
			os.Exit(1)
		}
		printError(os.Stderr, err)
		if isUnknownCommandError(err) {
			fmt.Fprintln(os.Stderr, "  Run 'netsentinel --help' for usage.")
		}
		os.Exit(1)
	}
}

// printError writes err in the structured "✗ what / why / fix" layout.
// Plain errors get the same marker.
func printError(w io.Writer, err error) {
	msg := err.Error()
	if !strings.HasPrefix(msg, ui.SymbolFail) {
		msg = ui.SymbolFail + " " + msg
	}
	fmt.Fprintln(w, strings.TrimRight(msg, "\n"))
}

// isUnknownCommandError reports cobra's unknown command or flag errors.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
