package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/dashboard"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/logger"
	"github.com/netsentinel/netsentinel/internal/settings"
	"github.com/netsentinel/netsentinel/internal/ui"
)

var settingsOutput string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and change the backend's persisted settings",
	Long: `Read and change the settings the backend persists.

Known keys:
  ping_interval     check interval in seconds (10-120, step 10)
  auto_monitor      start monitoring when the dashboard opens (true/false)
  speed_unit        bps, kbps, mbps or gbps
  overlay_enabled   show the overlay badge (true/false)
  overlay_position  top-left, top-right, bottom-left or bottom-right

Other keys are kept as they are.`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key...]",
	Short: "Print settings",
	Example: `  netsentinel settings get
  netsentinel settings get speed_unit
  netsentinel settings get -o yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return settingsGetCommand(ctx, cmd.OutOrStdout(), s.client, args, settingsOutput)
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:     "set key=value...",
	Short:   "Change one or more settings",
	Example: `  netsentinel settings set speed_unit=gbps ping_interval=60`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return settingsSetCommand(ctx, cmd.OutOrStdout(), s.client, args)
		})
	},
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New(errors.ErrConfig,
				"settings edit needs an interactive terminal",
				"Use 'netsentinel settings set key=value' instead")
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return settingsEditCommand(ctx, cmd.OutOrStdout(), s.client)
		})
	},
}

func init() {
	settingsGetCmd.Flags().StringVarP(&settingsOutput, "output", "o", "text", "output format: text, yaml or json")
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd, settingsEditCmd)
	rootCmd.AddCommand(settingsCmd)
}

func loadStore(ctx context.Context, client backend.Backend) (*settings.Store, error) {
	store := settings.New(client, logger.NewEnvLogger("[settings]"))
	if _, err := store.Load(ctx); err != nil {
		return nil, backendErr(err, "Couldn't load settings")
	}
	return store, nil
}

func settingsGetCommand(ctx context.Context, w io.Writer, client backend.Backend, keys []string, format string) error {
	store, err := loadStore(ctx, client)
	if err != nil {
		if format == "json" {
			return emitJSON(w, nil, err)
		}
		return err
	}
	snap := store.Snapshot()

	selected := backend.Settings{}
	if len(keys) == 0 {
		selected = snap
	} else {
		for _, k := range keys {
			v, ok := snap[k]
			if !ok {
				return errors.New(errors.ErrSettings,
					fmt.Sprintf("No setting named %q", k),
					"Run 'netsentinel settings get' to list them")
			}
			selected[k] = v
		}
	}

	switch format {
	case "json":
		return emitJSON(w, selected, nil)
	case "yaml":
		out, err := yaml.Marshal(map[string]interface{}(selected))
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrSettings, "Couldn't encode settings", "")
		}
		_, err = w.Write(out)
		return err
	case "text", "":
		rows := make([]ui.KVRow, 0, len(selected))
		for _, k := range selected.Keys() {
			rows = append(rows, ui.KVRow{Key: k, Value: dashboard.DisplaySetting(snap, k)})
		}
		if len(rows) == 0 {
			fmt.Fprintln(w, ui.MutedStyle().Render("No settings stored yet."))
			return nil
		}
		fmt.Fprint(w, ui.RenderKV("Settings", rows))
		return nil
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown output format %q", format),
		"Use text, yaml or json")
}

// parseAssignments splits key=value arguments and converts each value.
func parseAssignments(args []string) ([]string, []interface{}, error) {
	keys := make([]string, 0, len(args))
	values := make([]interface{}, 0, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, nil, errors.New(errors.ErrSettings,
				fmt.Sprintf("%q isn't a key=value pair", arg),
				"Example: netsentinel settings set speed_unit=gbps")
		}
		v, err := settings.ParseValue(key, raw)
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, v)
	}
	return keys, values, nil
}

func settingsSetCommand(ctx context.Context, w io.Writer, client backend.Backend, args []string) error {
	keys, values, err := parseAssignments(args)
	if err != nil {
		return err
	}

	store, err := loadStore(ctx, client)
	if err != nil {
		return err
	}

	for i, key := range keys {
		if _, err := store.Update(ctx, key, values[i]); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s = %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), key,
			dashboard.DisplaySetting(store.Snapshot(), key))
	}
	return nil
}

// settingsFormValues backs the edit form.
type settingsFormValues struct {
	Interval       float64
	AutoMonitor    bool
	SpeedUnit      string
	OverlayEnabled bool
	Position       string
}

func formValuesFrom(s backend.Settings) settingsFormValues {
	return settingsFormValues{
		Interval:       settings.ClampPingInterval(s.PingInterval()),
		AutoMonitor:    s.AutoMonitor(),
		SpeedUnit:      string(s.SpeedUnit()),
		OverlayEnabled: s.OverlayEnabled(),
		Position:       string(s.OverlayPosition()),
	}
}

// changes lists the keys whose values differ from before, in panel order.
func (v settingsFormValues) changes(before settingsFormValues) ([]string, []interface{}) {
	var keys []string
	var values []interface{}
	add := func(key string, value interface{}) {
		keys = append(keys, key)
		values = append(values, value)
	}
	if v.Interval != before.Interval {
		add(backend.KeyPingInterval, v.Interval)
	}
	if v.AutoMonitor != before.AutoMonitor {
		add(backend.KeyAutoMonitor, v.AutoMonitor)
	}
	if v.SpeedUnit != before.SpeedUnit {
		add(backend.KeySpeedUnit, v.SpeedUnit)
	}
	if v.OverlayEnabled != before.OverlayEnabled {
		add(backend.KeyOverlayEnabled, v.OverlayEnabled)
	}
	if v.Position != before.Position {
		add(backend.KeyOverlayPosition, v.Position)
	}
	return keys, values
}

func settingsForm(v *settingsFormValues) *huh.Form {
	var intervals []huh.Option[float64]
	for i := settings.MinPingInterval; i <= settings.MaxPingInterval; i += settings.PingIntervalStep {
		intervals = append(intervals, huh.NewOption(fmt.Sprintf("%.0fs", i), i))
	}
	var units []huh.Option[string]
	for _, u := range backend.SpeedUnits {
		units = append(units, huh.NewOption(strings.ToUpper(string(u)), string(u)))
	}
	var positions []huh.Option[string]
	for _, p := range backend.OverlayPositions {
		positions = append(positions, huh.NewOption(string(p), string(p)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[float64]().
				Title("Check Interval").
				Description("How often the backend measures the connection").
				Options(intervals...).
				Value(&v.Interval),
			huh.NewConfirm().
				Title("Auto-start Monitoring").
				Description("Start monitoring when the dashboard opens").
				Value(&v.AutoMonitor),
			huh.NewSelect[string]().
				Title("Speed Unit").
				Options(units...).
				Value(&v.SpeedUnit),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show Overlay").
				Value(&v.OverlayEnabled),
			huh.NewSelect[string]().
				Title("Overlay Position").
				Options(positions...).
				Value(&v.Position),
		),
	)
}

func settingsEditCommand(ctx context.Context, w io.Writer, client backend.Backend) error {
	store, err := loadStore(ctx, client)
	if err != nil {
		return err
	}

	before := formValuesFrom(store.Snapshot())
	after := before
	if err := settingsForm(&after).Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrSettings,
			"Failed to get user input",
			"Use 'netsentinel settings set key=value' instead")
	}

	return applySettingChanges(ctx, w, store, before, after)
}

func applySettingChanges(ctx context.Context, w io.Writer, store *settings.Store, before, after settingsFormValues) error {
	keys, values := after.changes(before)
	if len(keys) == 0 {
		fmt.Fprintln(w, "No changes.")
		return nil
	}
	for i, key := range keys {
		if _, err := store.Update(ctx, key, values[i]); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s = %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), key,
			dashboard.DisplaySetting(store.Snapshot(), key))
	}
	return nil
}
