package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/GriffinCanCode/termhost/internal/providers/terminal"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

func newAttachCmd(opts *rootOptions) *cobra.Command {
	var shellPath string

	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Open an interactive session in this terminal",
		Long: `Spawns the configured shell on a local pseudo-terminal and relays it to
this terminal until the shell exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.config
			if shellPath != "" {
				cfg.Terminal.Shell = shellPath
			}
			cols, rows := termSize(cfg.Terminal.Cols, cfg.Terminal.Rows)

			mgr := terminal.NewManager(terminal.Config{
				Shell:            cfg.Terminal.Shell,
				Cols:             cols,
				Rows:             rows,
				SubscriberBuffer: cfg.Terminal.SubscriberBuffer,
			}, opts.logger.Logger)
			defer mgr.Shutdown()

			return attach(mgr, cmd.InOrStdin(), cmd.OutOrStdout(), opts.logger.Logger)
		},
	}
	cmd.Flags().StringVar(&shellPath, "shell", "", "shell executable (overrides TERMHOST_SHELL)")
	return cmd
}

const attachID types.SessionID = 1

func attach(mgr *terminal.Manager, in io.Reader, out io.Writer, logger *zap.Logger) error {
	events, unsubscribe := mgr.Subscribe()
	defer unsubscribe()

	if _, err := mgr.CreateSession(attachID); err != nil {
		return err
	}
	done, err := mgr.Done(attachID)
	if err != nil {
		return err
	}

	restore, err := makeStdinRaw()
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer restore()

	stopResize := watchResize(func(cols, rows int) {
		if err := mgr.Resize(attachID, cols, rows); err != nil {
			logger.Debug("Resize failed", zap.Error(err))
		}
	})
	defer stopResize()

	// stdin is never closed under us, so this goroutine may outlive the session
	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				if werr := mgr.WriteInput(attachID, buf[:n]); werr != nil {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, err := io.WriteString(out, ev.Data); err != nil {
				return err
			}
		case <-done:
			drain(events, out)
			return nil
		}
	}
}

// drain writes output that was published before the shell exited
func drain(events <-chan types.OutputEvent, out io.Writer) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			_, _ = io.WriteString(out, ev.Data)
		default:
			return
		}
	}
}

func makeStdinRaw() (func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { _ = term.Restore(fd, oldState) }, nil
}

func termSize(defCols, defRows int) (cols, rows int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defCols, defRows
	}
	c, r, err := term.GetSize(fd)
	if err != nil || c <= 0 || r <= 0 {
		return defCols, defRows
	}
	return c, r
}

var errNotTerminal = errors.New("stdout is not a terminal")

func currentSize() (int, int, error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, errNotTerminal
	}
	return term.GetSize(fd)
}
