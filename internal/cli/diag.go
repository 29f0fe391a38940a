package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/dashboard"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/ui"
)

var pingCmd = &cobra.Command{
	Use:   "ping [host]",
	Short: "Run a one-shot ping diagnostic",
	Long: `Ask the backend to ping a host once and report latency and loss.
The host defaults to dashboard.ping_host.

Examples:
  netsentinel ping
  netsentinel ping 1.1.1.1`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			host := s.cfg.Dashboard.PingHost
			if len(args) == 1 {
				host = args[0]
			}
			return pingCommand(ctx, cmd.OutOrStdout(), s.client, host)
		})
	},
}

var dnsCmd = &cobra.Command{
	Use:   "dns",
	Short: "Run a DNS resolution diagnostic",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return dnsCommand(ctx, cmd.OutOrStdout(), s.client)
		})
	},
}

var scanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Survey nearby Wi-Fi networks",
	Long: `Ask the backend for a Wi-Fi survey and print up to 6 networks with
their signal, channel and congestion, plus the suggested channel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return scanCommand(ctx, cmd.OutOrStdout(), s.client, scanJSON)
		})
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "output JSON")
	rootCmd.AddCommand(pingCmd, dnsCmd, scanCmd)
}

func pingCommand(ctx context.Context, w io.Writer, client backend.Backend, host string) error {
	spinner := ui.NewSpinnerTo(w, "Ping "+host)
	spinner.Start()

	res, err := client.TestSinglePing(ctx, host)
	if err != nil {
		spinner.Fail("Could not reach server")
		return backendErr(err, "Ping test failed")
	}
	if !res.Success {
		spinner.Fail("Could not reach server")
		return errors.New(errors.ErrBackend,
			fmt.Sprintf("Ping to %s failed", host),
			"The backend is up but the host didn't answer")
	}
	spinner.Success(dashboard.PingSummary(res))
	return nil
}

func dnsCommand(ctx context.Context, w io.Writer, client backend.Backend) error {
	spinner := ui.NewSpinnerTo(w, "DNS")
	spinner.Start()

	res, err := client.TestDNS(ctx)
	if err != nil {
		spinner.Fail("Could not reach server")
		return backendErr(err, "DNS test failed")
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "DNS resolution failed"
		}
		spinner.Fail(msg)
		return errors.New(errors.ErrBackend, "DNS test failed: "+msg, "")
	}
	spinner.Success(dashboard.DNSSummary(res))
	return nil
}

var scanColumns = []ui.TableColumn{
	{Title: "SSID", Width: 20},
	{Title: "Signal", Width: 7},
	{Title: "Band", Width: 7},
	{Title: "Ch", Width: 4},
	{Title: "Security", Width: 10},
	{Title: "Congestion", Width: 10},
}

func scanCommand(ctx context.Context, w io.Writer, client backend.Backend, asJSON bool) error {
	if asJSON {
		res, err := client.ScanWifiNetworks(ctx)
		return emitJSON(w, res, err)
	}

	spinner := ui.NewSpinnerTo(w, "Scanning Wi-Fi")
	spinner.Start()

	res, err := client.ScanWifiNetworks(ctx)
	if err != nil {
		spinner.Fail("Could not reach server")
		return backendErr(err, "Wi-Fi scan failed")
	}
	if res.Error != "" {
		spinner.Fail(res.Error)
		return nil
	}
	spinner.Success(fmt.Sprintf("%d network(s)", len(res.Networks)))

	if len(res.Networks) == 0 {
		fmt.Fprintln(w, ui.MutedStyle().Render("No networks found."))
	} else {
		fmt.Fprintln(w, ui.RenderSimpleTable(scanColumns, scanRows(res.Networks)))
	}
	if res.BestChannel != nil {
		fmt.Fprintf(w, "Suggested channel: %d\n", *res.BestChannel)
	}
	return nil
}

func scanRows(networks []backend.WifiNetwork) [][]string {
	if len(networks) > dashboard.MaxNetworks {
		networks = networks[:dashboard.MaxNetworks]
	}
	rows := make([][]string, 0, len(networks))
	for _, n := range networks {
		rows = append(rows, []string{
			n.SSID,
			strconv.Itoa(n.Signal) + "%",
			n.Band,
			strconv.Itoa(n.Channel),
			n.Security,
			n.Congestion,
		})
	}
	return rows
}
