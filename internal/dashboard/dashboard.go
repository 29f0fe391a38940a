package dashboard

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/logger"
	"github.com/netsentinel/netsentinel/internal/push"
)

// Run starts the dashboard and blocks until the user quits or ctx ends.
// When source is non-nil its events drive the overlay badge; a source that
// can't be subscribed is logged and the dashboard runs without it.
func Run(ctx context.Context, opts Options, source push.Source) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'netsentinel status' for plain output")
	}

	log := opts.Log
	if log == nil {
		log = logger.Noop()
		opts.Log = log
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		New(ctx, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if source != nil {
		bridge := NewBridge(source, log)
		if err := bridge.Attach(ctx, program); err != nil {
			log.Warn("push: %v", err)
		}
		defer func() {
			if err := bridge.Detach(); err != nil {
				log.Warn("push: detach: %v", err)
			}
		}()
	}

	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		// Canceled from outside (signal); not a failure.
		return nil
	}
	return err
}
