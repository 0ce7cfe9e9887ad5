package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"focustimer/internal/app"
	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
	"focustimer/internal/notify"
	"focustimer/internal/sound"
)

type runOptions struct {
	cyclesToRun int
	noSound     bool
}

func newRunCmd(env *environment) *cobra.Command {
	options := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the timer headless, printing the countdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runHeadless(ctx, env, options, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&options.cyclesToRun, "cycles-to-run", 0, "stop after this many completed work sessions (0 runs until interrupted)")
	cmd.Flags().BoolVar(&options.noSound, "no-sound", false, "disable sound cues for this run")
	return cmd
}

// errCyclesDone ends the run once the requested work sessions are finished.
var errCyclesDone = errors.New("requested work sessions completed")

func runHeadless(ctx context.Context, env *environment, options *runOptions, out io.Writer) error {
	keeper, err := env.newKeeper()
	if err != nil {
		return err
	}
	defer keeper.Close()

	consumers := env.newConsumers(notify.WriterSender{Writer: out}, sound.BellBeeper{Writer: out})
	defer consumers.close()
	if options.noSound {
		consumers.player.SetEnabled(false)
	}

	done := make(chan struct{})
	driver := newHeadlessDriver(keeper, options.cyclesToRun, out, func() { close(done) })

	session := app.NewSession(keeper, env.logger, append(consumers.handlers(), driver)...)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return session.Run(groupCtx)
	})
	group.Go(func() error {
		select {
		case <-groupCtx.Done():
			return groupCtx.Err()
		case <-done:
			return errCyclesDone
		}
	})

	keeper.Start()
	err = group.Wait()
	if errors.Is(err, errCyclesDone) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// headlessDriver prints the countdown and starts each new phase, since a
// transition leaves the keeper paused.
type headlessDriver struct {
	keeper      *timekeeper.TimeKeeper
	cyclesToRun int
	out         io.Writer
	onDone      func()

	workDone int
	finished bool
}

func newHeadlessDriver(keeper *timekeeper.TimeKeeper, cyclesToRun int, out io.Writer, onDone func()) *headlessDriver {
	return &headlessDriver{keeper: keeper, cyclesToRun: cyclesToRun, out: out, onDone: onDone}
}

// HandleEvent runs on the session goroutine only.
func (driver *headlessDriver) HandleEvent(event timekeeper.Event) {
	if driver.finished {
		return
	}
	switch event.Type {
	case timekeeper.EventTicked:
		fmt.Fprintf(driver.out, "%s %s\n", event.Phase.Title(), timekeeper.FormatClock(event.Remaining))
	case timekeeper.EventPhaseTransitioned:
		if event.From == model.PhaseWork && event.Reason == timekeeper.ReasonCompleted {
			driver.workDone++
		}
		if driver.cyclesToRun > 0 && driver.workDone >= driver.cyclesToRun {
			driver.finished = true
			driver.onDone()
			return
		}
		driver.keeper.Start()
	}
}
