package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/bmatcuk/doublestar/v2"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wagoodman/go-partybus"

	"github.com/semgate/semgate/internal"
	"github.com/semgate/semgate/internal/bus"
	"github.com/semgate/semgate/internal/config"
	"github.com/semgate/semgate/internal/format"
	"github.com/semgate/semgate/internal/log"
	"github.com/semgate/semgate/internal/ui"
	"github.com/semgate/semgate/internal/version"
	"github.com/semgate/semgate/semgate"
	"github.com/semgate/semgate/semgate/analysis"
	"github.com/semgate/semgate/semgate/artifact"
	"github.com/semgate/semgate/semgate/event"
	"github.com/semgate/semgate/semgate/gate"
	"github.com/semgate/semgate/semgate/presenter"
	"github.com/semgate/semgate/semgate/presenter/models"
	"github.com/semgate/semgate/semgate/repository"
	"github.com/semgate/semgate/semgate/semgateerr"
)

var persistentOpts = config.CliOnlyOptions{}

var rootCmd = &cobra.Command{
	Use:   fmt.Sprintf("%s [COORDINATE]", internal.ApplicationName),
	Short: "A semantic version gate for Maven artifact releases",
	Long: format.Tprintf(`Verify that the version declared for a build artifact carries the semver bump its binary
compatibility against the previous release requires, and record the next logical version.

Supports the following coordinate forms:
    {{.appName}} com.acme:widget:1.2.3                 group:name:version (jar packaging)
    {{.appName}} com.acme:widget:1.2.3::war            explicit packaging
    {{.appName}} pkg:maven/com.acme/widget@1.2.3       package URL
`, map[string]interface{}{
		"appName": internal.ApplicationName,
	}),
	Args:          validateRootArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if appConfig.Dev.ProfileCPU && appConfig.Dev.ProfileMem {
			return fmt.Errorf("cannot profile CPU and memory simultaneously")
		}

		if appConfig.Dev.ProfileCPU {
			defer profile.Start(profile.CPUProfile).Stop()
		} else if appConfig.Dev.ProfileMem {
			defer profile.Start(profile.MemProfile).Stop()
		}

		return rootExec(cmd, args)
	},
}

func init() {
	setGlobalCliOptions()
	setRootFlags(rootCmd.Flags())
}

func setGlobalCliOptions() {
	// setup global CLI options (available on all CLI commands)
	rootCmd.PersistentFlags().StringVarP(&persistentOpts.ConfigPath, "config", "c", "", "application config file")

	flag := "quiet"
	rootCmd.PersistentFlags().BoolP(
		flag, "q", false,
		"suppress all logging output",
	)
	if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		fmt.Printf("unable to bind flag '%s': %+v", flag, err)
		os.Exit(1)
	}

	rootCmd.PersistentFlags().CountVarP(&persistentOpts.Verbosity, "verbose", "v", "increase verbosity (-v = info, -vv = debug)")
}

func setRootFlags(flags *pflag.FlagSet) {
	flags.StringP(
		"output", "o", "table",
		fmt.Sprintf("report output formatter, formats=%v", presenter.Options),
	)

	flags.String(
		"file", "",
		"file to write the report output to (default is STDOUT)",
	)

	flags.StringP(
		"output-template-file", "t", "",
		"specify the path to a Go template file (requires 'template' output to be selected)",
	)

	flags.String(
		"artifact", "",
		"explicit path to the candidate artifact file (default is discovered under the build directory)",
	)

	flags.String(
		"build-dir", "target",
		"the module build output directory holding the candidate artifact",
	)

	flags.String(
		"parent-build-dir", "",
		"the parent project build directory to merge the next-version marker into",
	)

	flags.BoolP(
		"fail-on-incorrect-version", "f", false,
		"fail when the declared version does not satisfy the change required by the compatibility analysis",
	)

	flags.Bool(
		"skip", false,
		"bypass the version gate for this build",
	)
}

func bindRootConfigOptions(flags *pflag.FlagSet) error {
	if err := viper.BindPFlag("output", flags.Lookup("output")); err != nil {
		return err
	}

	if err := viper.BindPFlag("file", flags.Lookup("file")); err != nil {
		return err
	}

	if err := viper.BindPFlag("output-template-file", flags.Lookup("output-template-file")); err != nil {
		return err
	}

	if err := viper.BindPFlag("artifact", flags.Lookup("artifact")); err != nil {
		return err
	}

	if err := viper.BindPFlag("project.build-dir", flags.Lookup("build-dir")); err != nil {
		return err
	}

	if err := viper.BindPFlag("project.parent-build-dir", flags.Lookup("parent-build-dir")); err != nil {
		return err
	}

	if err := viper.BindPFlag("check.fail-on-incorrect-version", flags.Lookup("fail-on-incorrect-version")); err != nil {
		return err
	}

	return viper.BindPFlag("skip", flags.Lookup("skip"))
}

func validateRootArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		// in this case we claim to be running "cmd help"
		if err := cmd.Help(); err != nil {
			return fmt.Errorf("unable to display help: %w", err)
		}
		return fmt.Errorf("a coordinate argument is required (group:name:version)")
	}

	return cobra.MaximumNArgs(1)(cmd, args)
}

func rootExec(_ *cobra.Command, args []string) error {
	// we may not be able to write to stdout (e.g. the report is directed to a file), so the
	// report destination is set up front to fail fast
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
		startWorker(args[0]),
		setupSignals(),
		eventSubscription,
		cleanup,
		ui.Select(isVerbose(), appConfig.Quiet, reporter)...,
	)
}

func isVerbose() (result bool) {
	isPipedInput, err := internal.IsPipedInput()
	if err != nil {
		// since we can't tell if there was piped input we assume that there could be to disable the ETUI
		log.Warnf("unable to determine if there is piped input: %+v", err)
		return true
	}
	// verbosity should consider if there is piped input (in which case we should not show the ETUI)
	return appConfig.CliOptions.Verbosity > 0 || isPipedInput
}

func checkForAppUpdate() {
	if !appConfig.CheckForAppUpdate {
		return
	}

	isAvailable, newVersion, err := version.IsUpdateAvailable()
	if err != nil {
		log.Errorf(err.Error())
	}
	if isAvailable {
		log.Infof("New version of %s is available: %s (currently running: %s)", internal.ApplicationName, newVersion, version.FromBuild().Version)

		bus.Publish(partybus.Event{
			Type:  event.AppUpdateAvailable,
			Value: newVersion,
		})
	} else {
		log.Debugf("No new %s update available", internal.ApplicationName)
	}
}

func startWorker(userInput string) <-chan error {
	errs := make(chan error)
	go func() {
		defer close(errs)

		checkForAppUpdate()

		if appConfig.Skip {
			log.Warnf("version gate bypassed for this build (skip is enabled)")
			bus.Exit()
			return
		}

		coordinate, err := artifact.ParseCoordinate(userInput)
		if err != nil {
			errs <- err
			return
		}

		artifactPath, err := candidateArtifactPath(coordinate)
		if err != nil {
			errs <- err
			return
		}

		outcome, err := semgate.Check(context.Background(), checkConfig(), coordinate, artifactPath)
		if err != nil {
			var precondition *semgateerr.PreconditionError
			if errors.As(err, &precondition) && !appConfig.Check.HaltOnFailure {
				log.Warnf("%s, skipping the version gate", precondition.Reason)
				bus.Exit()
				return
			}

			errs <- err

			if !errors.Is(err, semgateerr.ErrIncorrectVersion) || outcome == nil {
				return
			}
			// an incorrect version verdict still carries a complete outcome worth reporting
		}

		if outcome == nil {
			// the gate deliberately skipped this module (e.g. pom packaging)
			bus.Exit()
			return
		}

		bus.Publish(partybus.Event{
			Type: event.CompatibilityCheckFinished,
			Value: presenter.GetPresenter(appConfig.PresenterOpt, models.PresenterConfig{
				Outcome:   *outcome,
				AppConfig: appConfig,
			}, appConfig.OutputTemplateFile),
		})
	}()
	return errs
}

// candidateArtifactPath locates the build's artifact file: an explicit --artifact path wins,
// otherwise the build directory is searched with the configured glob. An empty path is not an
// error here, the gate raises the missing-artifact precondition with the full context.
func candidateArtifactPath(coordinate artifact.Coordinate) (string, error) {
	if appConfig.Artifact != "" {
		return appConfig.Artifact, nil
	}

	pattern := path.Join(appConfig.Project.BuildDir, appConfig.Project.ArtifactGlob)
	matches, err := doublestar.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("unable to search for candidate artifacts (%s): %w", pattern, err)
	}

	// prefer the file named for the coordinate (a shaded or source jar may sit alongside it)
	expected := path.Join(appConfig.Project.BuildDir, coordinate.FileName())
	for _, match := range matches {
		if match == expected {
			return match, nil
		}
	}

	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("found %d candidate artifacts under %s, use --artifact to disambiguate", len(matches), appConfig.Project.BuildDir)
	}
}

func checkConfig() semgate.CheckConfig {
	return semgate.CheckConfig{
		Repository: repository.MavenConfig{
			URL:    appConfig.Repository.URL,
			CACert: appConfig.Repository.CACert,
		},
		CacheDir:        appConfig.Repository.CacheDir,
		IgnoreSnapshots: appConfig.Check.IgnoreSnapshots,
		Analyzer: analysis.ExecConfig{
			Command: appConfig.Analysis.Command,
			Args:    appConfig.Analysis.Args,
		},
		Gate: gate.Config{
			FailOnIncorrectVersion: appConfig.Check.FailOnIncorrectVersion,
			AllowHigherVersions:    appConfig.Check.AllowHigherVersions,
			ExcludePackages:        appConfig.Analysis.ExcludePackages,
			ExcludeFiles:           appConfig.Analysis.ExcludeFiles,
			Classpath:              appConfig.Analysis.Classpath,
			MarkerName:             appConfig.Marker.FileName,
			MarkerDir:              appConfig.Project.BuildDir,
			ParentMarkerDir:        appConfig.Project.ParentBuildDir,
			OverwriteMarker:        appConfig.Marker.Overwrite,
		},
	}
}
