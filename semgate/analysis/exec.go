package analysis

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/scylladb/go-set/strset"

	"github.com/semgate/semgate/internal/log"
	"github.com/semgate/semgate/semgate/semver"
)

type ExecConfig struct {
	Command string
	Args    []string
}

// execAnalyzer shells out to an external compatibility analyzer. The command is handed the
// baseline and candidate artifact paths (plus any exclusions) and must print the required
// change classification as the final token on stdout.
type execAnalyzer struct {
	command string
	args    []string
}

func NewExecAnalyzer(cfg ExecConfig) (Analyzer, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("no analyzer command configured")
	}

	return &execAnalyzer{
		command: cfg.Command,
		args:    cfg.Args,
	}, nil
}

func (a *execAnalyzer) Classify(ctx context.Context, baselinePath, candidatePath string, opts Options) (semver.Change, error) {
	args := a.commandArgs(baselinePath, candidatePath, opts)

	log.Debugf("running analyzer: %s %s", a.command, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, a.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return semver.UnknownChange, fmt.Errorf("analyzer execution failed: %w (stderr=%q)", err, strings.TrimSpace(stderr.String()))
	}

	fields := strings.Fields(stdout.String())
	if len(fields) == 0 {
		return semver.UnknownChange, fmt.Errorf("analyzer produced no output")
	}

	verdict := fields[len(fields)-1]
	change := semver.ParseChange(verdict)
	if change == semver.UnknownChange {
		return semver.UnknownChange, fmt.Errorf("analyzer verdict %q is not a change classification", verdict)
	}

	return change, nil
}

func (a *execAnalyzer) commandArgs(baselinePath, candidatePath string, opts Options) []string {
	args := make([]string, len(a.args))
	copy(args, a.args)

	for _, entry := range opts.Classpath {
		args = append(args, "--classpath", entry)
	}
	for _, pkg := range dedupe(opts.ExcludePackages) {
		args = append(args, "--exclude-package", pkg)
	}
	for _, f := range dedupe(opts.ExcludeFiles) {
		args = append(args, "--exclude-file", f)
	}

	return append(args, baselinePath, candidatePath)
}

// dedupe drops duplicate exclusion entries and fixes the ordering so that the assembled
// command is deterministic.
func dedupe(entries []string) []string {
	if len(entries) == 0 {
		return nil
	}
	result := strset.New(entries...).List()
	sort.Strings(result)
	return result
}
