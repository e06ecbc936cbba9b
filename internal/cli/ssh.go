package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gliderlabs/ssh"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/pipeline"
	"github.com/matzehuels/ptplot/pkg/plotspec"
)

type sshOpts struct {
	spec    string
	addr    string
	hostKey string
	noCache bool
}

func (c *CLI) sshCommand() *cobra.Command {
	opts := sshOpts{addr: ":2222"}

	cmd := &cobra.Command{
		Use:   "ssh [tracking.csv]",
		Short: "Serve the terminal player over SSH",
		Long: `SSH serves one play to any number of SSH clients. Every session gets its
own player with independent playback. Clients must request a terminal:

  ssh -t -p 2222 localhost

Without --host-key a fresh host key is generated at startup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, spec, _, err := c.loadData(ctx, args[0], opts.spec, opts.noCache)
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Info("loaded tracking data", "rows", data.Len())
			return runSSH(ctx, data, spec, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.spec, "spec", "s", "", "plot spec file (required)")
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.hostKey, "host-key", "", "PEM host key file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the filter cache")
	_ = cmd.MarkFlagRequired("spec")
	completeSpec(cmd)

	return cmd
}

func runSSH(ctx context.Context, data *dataset.Frame, spec *plotspec.Spec, opts sshOpts) error {
	logger := loggerFromContext(ctx)
	srv := &ssh.Server{
		Addr: opts.addr,
		Handler: func(sess ssh.Session) {
			if err := playSession(ctx, sess, data, spec); err != nil {
				logger.Warn("session ended", "user", sess.User(), "err", err)
			}
		},
	}
	if opts.hostKey != "" {
		if err := srv.SetOption(ssh.HostKeyFile(opts.hostKey)); err != nil {
			return fmt.Errorf("set host key: %w", err)
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	printSuccess("SSH player on %s", opts.addr)
	logger.Info("listening", "addr", opts.addr)
	if err := srv.ListenAndServe(); !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// playSession draws a fresh plot for the session and runs a player on
// the session's terminal.
func playSession(ctx context.Context, sess ssh.Session, data *dataset.Frame, spec *plotspec.Spec) error {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return errors.New("no pty")
	}

	logger := loggerFromContext(ctx)
	logger.Info("session started", "user", sess.User(), "remote", sess.RemoteAddr().String())
	defer logger.Info("session closed", "user", sess.User())

	res, err := pipeline.Draw(sess.Context(), spec, data)
	if err != nil {
		fmt.Fprintln(sess, "Error:", err)
		return err
	}

	model := NewPlayerModel(res, spec.Title)
	model.width, model.height = ptyReq.Window.Width, ptyReq.Window.Height
	prog := tea.NewProgram(model,
		tea.WithInput(sess),
		tea.WithOutput(sess),
		tea.WithAltScreen(),
		tea.WithContext(sess.Context()))

	go func() {
		for win := range winCh {
			prog.Send(tea.WindowSizeMsg{Width: win.Width, Height: win.Height})
		}
	}()

	_, err = prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
