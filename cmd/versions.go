package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/bus"
	"github.com/semgate/semgate/internal/log"
	"github.com/semgate/semgate/internal/ui"
	"github.com/semgate/semgate/semgate/artifact"
	"github.com/semgate/semgate/semgate/repository"
)

var versionsCmd = &cobra.Command{
	Use:   "versions COORDINATE",
	Short: "list the released versions the gate would consider as baseline candidates",
	Long: `List the published versions of an artifact in ascending order, after the same
filtering the gate applies (unparsable versions and, when configured, snapshots are dropped).
The last entry is the version a gate run would compare against.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runVersionsCmd,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}

func runVersionsCmd(_ *cobra.Command, args []string) error {
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
		startVersionListing(args[0]),
		setupSignals(),
		eventSubscription,
		cleanup,
		ui.Select(isVerbose(), appConfig.Quiet, reporter)...,
	)
}

func startVersionListing(userInput string) <-chan error {
	errs := make(chan error)
	go func() {
		defer close(errs)

		// the declared version plays no part in a listing, so tolerate a version-less group:name form
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

		_, candidates, err := resolver.SelectBaseline(coordinate)
		if err != nil {
			errs <- err
			return
		}

		if len(candidates) == 0 {
			bus.Report(fmt.Sprintf("no released versions of %s:%s found\n", coordinate.Group, coordinate.Name))
			return
		}

		result := strings.Builder{}
		for _, candidate := range candidates {
			result.WriteString(candidate.String())
			result.WriteString("\n")
		}
		bus.Report(result.String())
	}()
	return errs
}

func newResolver() (*repository.Resolver, error) {
	repo, err := repository.NewMaven(repository.MavenConfig{
		URL:    appConfig.Repository.URL,
		CACert: appConfig.Repository.CACert,
	})
	if err != nil {
		return nil, err
	}

	return repository.NewResolver(repo, appConfig.Check.IgnoreSnapshots), nil
}
