package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/netsentinel/netsentinel/internal/dashboard"
	"github.com/netsentinel/netsentinel/internal/logger"
	"github.com/netsentinel/netsentinel/internal/stunutil"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard (default)",
	Long: `Open the interactive dashboard.

Panels:
  Status    live latency, quality score, details, Wi-Fi radar
  History   latency graph of the last 10 points and a list of the last 6
  Settings  check interval, auto-start, speed unit, overlay

Keyboard shortcuts:
` + dashboard.KeyReference() + `
Logs go to log_file while the dashboard runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func dashboardCommand(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	restore, err := logToFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer restore()

	log := logger.NewEnvLogger("[dashboard]")
	sess, err := openSession(ctx, log)
	if err != nil {
		return err
	}
	defer sess.Close()

	opts := dashboard.Options{
		Backend:      sess.client,
		Log:          log,
		LiveInterval: sess.cfg.Dashboard.LiveInterval,
		RadarTick:    sess.cfg.Dashboard.RadarTick,
		ToastTTL:     sess.cfg.Dashboard.ToastTTL,
		CallTimeout:  sess.cfg.Backend.Timeout,
		PingHost:     sess.cfg.Dashboard.PingHost,
		Version:      formatVersion(version),
	}

	arch, err := sess.openArchive(ctx)
	if err != nil {
		// The dashboard is still useful without the journal.
		log.Warn("archive: %v", err)
	} else if arch != nil {
		defer arch.Close()
		opts.Archive = arch
	}

	if servers := sess.cfg.STUN.Servers; len(servers) > 0 {
		opts.PublicAddress = stunutil.Lookup(servers, sess.cfg.STUN.Timeout)
	}

	source, err := sess.pushSource()
	if err != nil {
		log.Warn("push: %v", err)
	}

	return dashboard.Run(ctx, opts, source)
}
