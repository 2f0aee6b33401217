package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/bus"
	"github.com/semgate/semgate/internal/log"
	"github.com/semgate/semgate/internal/ui"
	"github.com/semgate/semgate/semgate/artifact"
)

var baselineCmd = &cobra.Command{
	Use:           "baseline COORDINATE",
	Short:         "show the baseline version a gate run would compare against",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBaselineCmd,
}

func init() {
	rootCmd.AddCommand(baselineCmd)
}

func runBaselineCmd(_ *cobra.Command, args []string) error {
	reporter, closer, err := reportWriter()
	if err != nil {
		return err
	}

	cleanup := func() {
		if err := closer(); err != nil {
			log.Warnf("unable to write to report destination: %+v", err)
		}
	}

	return eventLoop(
		startBaselineResolution(args[0]),
		setupSignals(),
		eventSubscription,
		cleanup,
		ui.Select(isVerbose(), appConfig.Quiet, reporter)...,
	)
}

func startBaselineResolution(userInput string) <-chan error {
	errs := make(chan error)
	go func() {
		defer close(errs)

		// the declared version plays no part in baseline selection, so tolerate a version-less group:name form
		if !strings.HasPrefix(userInput, "pkg:") && strings.Count(userInput, ":") == 1 {
			userInput += ":0"
		}

		coordinate, err := artifact.ParseCoordinate(userInput)
		if err != nil {
			errs <- err
			return
		}

		resolver, err := newResolver()
		if err != nil {
			errs <- err
			return
		}

		baseline, _, err := resolver.SelectBaseline(coordinate)
		if err != nil {
			errs <- err
			return
		}

		if baseline == nil {
			bus.Report(fmt.Sprintf("no prior release of %s:%s found\n", coordinate.Group, coordinate.Name))
			return
		}

		bus.Report(baseline.String() + "\n")
	}()
	return errs
}
