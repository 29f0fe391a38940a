package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/dashboard"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/stunutil"
	"github.com/netsentinel/netsentinel/internal/ui"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connection quality and details",
	Long: `Print the backend's current view of the connection: quality label and
score, latency, packet loss, jitter, bandwidth, DNS health and connection
facts.

Examples:
  netsentinel status
  netsentinel status --json
  netsentinel status --ssh deck`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			var lookup func(context.Context) (string, error)
			if len(s.cfg.STUN.Servers) > 0 {
				lookup = stunutil.Lookup(s.cfg.STUN.Servers, s.cfg.STUN.Timeout)
			}
			return statusCommand(ctx, cmd.OutOrStdout(), s.client, lookup, statusJSON)
		})
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output JSON")
	rootCmd.AddCommand(statusCmd)
}

// StatusReport is the --json shape of the status command.
type StatusReport struct {
	Status        backend.NetworkStatus   `json:"status"`
	LivePing      float64                 `json:"live_ping"`
	Connection    *backend.ConnectionInfo `json:"connection,omitempty"`
	PublicAddress string                  `json:"public_address,omitempty"`
}

// collectStatus fetches everything status prints. Only the status call is
// required; the rest fill in when they succeed.
func collectStatus(ctx context.Context, client backend.Backend, lookup func(context.Context) (string, error)) (StatusReport, backend.SpeedUnit, error) {
	var rep StatusReport

	status, err := client.GetNetworkStatus(ctx)
	if err != nil {
		return rep, "", err
	}
	rep.Status = status

	if ping, err := client.GetLivePing(ctx); err == nil {
		rep.LivePing = ping
	}

	unit := backend.SpeedMbps
	if s, err := client.GetSettings(ctx); err == nil {
		unit = s.SpeedUnit()
	}

	if info, err := client.GetConnectionInfo(ctx); err == nil {
		rep.Connection = &info
	}

	if lookup != nil {
		if addr, err := lookup(ctx); err == nil {
			rep.PublicAddress = addr
		}
	}
	return rep, unit, nil
}

func statusCommand(ctx context.Context, w io.Writer, client backend.Backend, lookup func(context.Context) (string, error), asJSON bool) error {
	rep, unit, err := collectStatus(ctx, client, lookup)
	if asJSON {
		return emitJSON(w, rep, err)
	}
	if err != nil {
		return err
	}

	monitoring := ui.ErrorStyle().Render("off")
	if rep.Status.Monitoring {
		monitoring = ui.SuccessStyle().Render("on")
	}

	fmt.Fprintln(w, dashboard.RenderStatusHeader(rep.Status, rep.LivePing))
	fmt.Fprintf(w, "Monitoring: %s\n\n", monitoring)
	fmt.Fprint(w, ui.RenderKV("Details", dashboard.StatusDetails(rep.Status, unit)))
	fmt.Fprintln(w)
	fmt.Fprint(w, ui.RenderKV("Connection", dashboard.ConnectionDetails(rep.Connection, rep.PublicAddress)))
	if rep.Connection != nil && rep.Connection.Error != "" {
		fmt.Fprintln(w, ui.WarningStyle().Render(ui.SymbolWarning+" "+rep.Connection.Error))
	}
	return nil
}

// withSession opens a backend session for cmd and closes it after fn.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(ctx, sess)
}

// backendErr wraps a failed call for display.
func backendErr(err error, what string) error {
	if errors.IsCode(err, errors.ErrBackend) || errors.IsCode(err, errors.ErrTunnel) {
		return err
	}
	return errors.WrapWithCode(err, errors.ErrBackend, what, "Is the monitoring backend running?")
}
