package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"focustimer/internal/app"
	"focustimer/internal/notify"
	"focustimer/internal/sound"
	"focustimer/internal/tui"
)

func newTUICmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the timer in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), env, cmd.OutOrStdout())
		},
	}
}

func runTUI(ctx context.Context, env *environment, out io.Writer) error {
	keeper, err := env.newKeeper()
	if err != nil {
		return err
	}
	defer keeper.Close()

	// The alternate screen owns stdout, so notifications only go to the log.
	sender := notify.Func(func(message notify.Message) error {
		env.logger.Info().Str("kind", string(message.Kind)).Msg(message.Title)
		return nil
	})
	consumers := env.newConsumers(sender, sound.BellBeeper{Writer: out})
	defer consumers.close()

	session := app.NewSession(keeper, env.logger, consumers.handlers()...)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		_ = session.Run(runCtx)
	}()

	program := tea.NewProgram(tui.NewModel(keeper), tea.WithAltScreen(), tea.WithContext(runCtx), tea.WithOutput(out))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
