package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/config"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/tunnel"
	"github.com/netsentinel/netsentinel/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Where to write; empty means ./netsentinel.yaml
	Global         bool   // Write ~/.config/netsentinel/config.yaml instead
	Backend        string // Pre-specified backend URL
	SSH            string // Pre-specified SSH host/alias
	Broker         string // Pre-specified MQTT broker
	Archive        string // Pre-specified archive path
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use flags and defaults
}

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a netsentinel config file",
	Long: `Write a starter netsentinel.yaml.

Prompts for the backend URL, an optional SSH host to tunnel through, an
optional MQTT broker for overlay updates and an optional archive path, then
checks that the backend answers before saving.

Examples:
  netsentinel init
  netsentinel init --global
  netsentinel init --non-interactive --backend http://127.0.0.1:8765 --ssh deck`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		if opts.Backend == "" {
			opts.Backend = backendFlag
		}
		if opts.SSH == "" {
			opts.SSH = sshFlag
		}
		if opts.Broker == "" {
			opts.Broker = brokerFlag
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return Init(ctx, cmd.OutOrStdout(), opts)
	},
}

func init() {
	f := initCmd.Flags()
	f.StringVar(&initOpts.Path, "path", "", "write the config here")
	f.BoolVar(&initOpts.Global, "global", false, "write the per-user config (~/.config/netsentinel/config.yaml)")
	f.StringVar(&initOpts.Archive, "archive", "", "sqlite archive path for history")
	f.BoolVarP(&initOpts.Overwrite, "force", "f", false, "overwrite an existing config")
	f.BoolVar(&initOpts.NonInteractive, "non-interactive", false, "skip prompts and the backend check")
	initCmd.MarkFlagsMutuallyExclusive("path", "global")
	rootCmd.AddCommand(initCmd)
}

// pingBackend checks that the backend configured in cfg answers.
var pingBackend = func(ctx context.Context, cfg *config.Config) error {
	opts := []backend.ClientOption{backend.WithTimeout(cfg.Backend.Timeout)}
	if cfg.Backend.SSH != "" {
		tun, err := tunnel.Open(ctx, cfg.Backend.SSH, tunnel.Options{Timeout: cfg.Backend.Timeout})
		if err != nil {
			return err
		}
		defer tun.Close()
		opts = append(opts, backend.WithDialContext(tun.DialContext))
	}
	_, err := backend.NewClient(cfg.Backend.URL, opts...).GetConnectionInfo(ctx)
	return err
}

func initTarget(opts InitOptions) string {
	switch {
	case opts.Path != "":
		return opts.Path
	case opts.Global:
		return config.GlobalConfigPath()
	}
	return filepath.Join(".", config.ConfigFileName)
}

func validateBackendURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter a URL like http://127.0.0.1:8765")
	}
	return nil
}

// Init creates a new config file.
func Init(ctx context.Context, w io.Writer, opts InitOptions) error {
	configPath := initTarget(opts)
	if configPath == "" {
		return errors.New(errors.ErrConfig,
			"Can't find your home directory for --global",
			"Pass --path instead")
	}

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
				Value(&overwrite),
		))
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.Backend != "" {
		cfg.Backend.URL = opts.Backend
	}
	cfg.Backend.SSH = opts.SSH
	cfg.Push.Broker = opts.Broker
	cfg.Archive.Path = opts.Archive

	if !opts.NonInteractive {
		fmt.Fprint(w, ui.RenderHeader(ui.HeaderInfo{
			Version: formatVersion(version),
			Tagline: "Writing " + configPath,
		}))
		fmt.Fprintln(w)
		if err := initForm(cfg).Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive")
		}
		cfg.Backend.URL = strings.TrimSpace(cfg.Backend.URL)
		cfg.Backend.SSH = strings.TrimSpace(cfg.Backend.SSH)
		cfg.Push.Broker = strings.TrimSpace(cfg.Push.Broker)
		cfg.Archive.Path = strings.TrimSpace(cfg.Archive.Path)
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if !opts.NonInteractive {
		save, err := checkBackend(ctx, w, cfg)
		if err != nil {
			return err
		}
		if !save {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Wrote %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), configPath)
	fmt.Fprintln(w, "  Run 'netsentinel' to open the dashboard.")
	return nil
}

// checkBackend pings the backend and, when it doesn't answer, asks whether
// to save anyway.
func checkBackend(ctx context.Context, w io.Writer, cfg *config.Config) (bool, error) {
	fmt.Fprintln(w)
	spinner := ui.NewSpinnerTo(w, "Checking backend at "+cfg.Backend.URL)
	spinner.Start()

	err := pingBackend(ctx, cfg)
	if err == nil {
		spinner.Success("")
		return true, nil
	}
	spinner.Fail(errors.OneLine(err))

	var saveAnyway bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Save config anyway? (You can start the backend later)").
			Value(&saveAnyway),
	))
	if formErr := form.Run(); formErr != nil {
		return false, err
	}
	return saveAnyway, nil
}

func initForm(cfg *config.Config) *huh.Form {
	var aliases []string
	if hosts, err := tunnel.ConfigHosts(); err == nil {
		for _, h := range hosts {
			aliases = append(aliases, h.Alias)
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Where the monitoring backend listens").
				Placeholder(config.DefaultBackendURL).
				Value(&cfg.Backend.URL).
				Validate(validateBackendURL),
			huh.NewInput().
				Title("SSH host (optional)").
				Description("Tunnel to the backend through this host; the URL is then resolved on it").
				Placeholder("deck or user@192.168.1.20 (leave empty for direct)").
				Suggestions(aliases).
				Value(&cfg.Backend.SSH),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("MQTT broker (optional)").
				Description("Receives overlay updates pushed by the backend").
				Placeholder("tcp://127.0.0.1:1883 (leave empty to skip)").
				Value(&cfg.Push.Broker),
			huh.NewInput().
				Title("History archive (optional)").
				Description("sqlite file that keeps fetched history").
				Placeholder("~/.local/state/netsentinel/history.db (leave empty to skip)").
				Value(&cfg.Archive.Path),
		),
	)
}
