package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/ui"
)

var monitorCmd = &cobra.Command{
	Use:       "monitor start|stop",
	Short:     "Start or stop backend monitoring",
	ValidArgs: []string{"start", "stop"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return monitorCommand(ctx, cmd.OutOrStdout(), s.client, args[0] == "start")
		})
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func monitorCommand(ctx context.Context, w io.Writer, client backend.Backend, start bool) error {
	verb, call := "stop", client.StopMonitoring
	if start {
		verb, call = "start", client.StartMonitoring
	}

	ok, err := call(ctx)
	if err != nil {
		return backendErr(err, fmt.Sprintf("Couldn't %s monitoring", verb))
	}
	if !ok {
		return errors.New(errors.ErrBackend,
			fmt.Sprintf("Couldn't %s monitoring", verb),
			"The backend declined; check its logs")
	}

	if start {
		fmt.Fprintln(w, ui.SuccessStyle().Render(ui.SymbolSuccess)+" Monitoring started")
	} else {
		fmt.Fprintln(w, ui.SuccessStyle().Render(ui.SymbolSuccess)+" Monitoring stopped")
	}
	return nil
}
