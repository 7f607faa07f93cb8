package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/portforge/archplan/pkg/errors"
	"github.com/portforge/archplan/pkg/keyword"
	"github.com/portforge/archplan/pkg/plan"
	"github.com/portforge/archplan/pkg/repo"
	"github.com/portforge/archplan/pkg/report"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	repoPath     string // package snapshot (TOML index or SQLite database)
	profilePath  string // arch profile (defaults baked in when empty)
	checkDeps    bool   // walk dependency graphs of each listed package
	appendSlots  bool   // suffix identifiers with their slot label
	debug        bool   // debug-level logging
	extremeDebug bool   // debug plus per-package dependency dumps
	output       string // report file (stdout if empty)
	dotOutput    string // Graphviz dump of the walked dependency edges
}

// planCommand creates the plan command. It reads a package list, computes the
// missing keywords per package against a repository snapshot, and prints an
// aligned report.
func (c *CLI) planCommand() *cobra.Command {
	var opts planOpts

	cmd := &cobra.Command{
		Use:   "plan --repo <snapshot> <file> [old-release [new-release]]",
		Short: "Compute missing keywords for a list of package versions",
		Long: `Compute which keywords each listed package version still needs.

The file lists one package version per line; blank lines and # comment lines
are copied through to the report. Optional release arguments restrict which
versions count as reference coverage (old-release) and as candidates
(new-release); they cannot be combined with --check-dependencies.

Examples:
  archplan plan --repo snapshot.toml list.txt
  archplan plan --repo snapshot.toml --check-dependencies --append-slots list.txt
  archplan plan --repo packages.db list.txt 3.4 3.5`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.repoPath, "repo", "r", "", "package snapshot (.toml index or .db/.sqlite database)")
	cmd.Flags().StringVarP(&opts.profilePath, "profile", "p", "", "arch profile file (built-in defaults if empty)")
	cmd.Flags().BoolVarP(&opts.checkDeps, "check-dependencies", "c", false, "walk each package's dependency graph")
	cmd.Flags().BoolVarP(&opts.appendSlots, "append-slots", "s", false, "append slot labels to reported packages")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "debug-level logging")
	cmd.Flags().BoolVar(&opts.extremeDebug, "extreme-debug", false, "debug logging plus per-package dependency dumps")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "report file (stdout if empty)")
	cmd.Flags().StringVar(&opts.dotOutput, "dot", "", "write the walked dependency edges as Graphviz DOT")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagFilename("repo", "toml", "db", "sqlite", "sqlite3")
	_ = cmd.MarkFlagFilename("profile", "toml")

	return cmd
}

// runPlan wires the snapshot, profile and seed list into a planner run.
func (c *CLI) runPlan(cmd *cobra.Command, args []string, opts *planOpts) error {
	if opts.debug || opts.extremeDebug {
		c.SetLogLevel(LogDebug)
	}
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := c.Logger

	profile, err := loadProfile(opts.profilePath)
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}

	cfg := plan.Config{
		CheckDependencies: opts.checkDeps,
		AppendSlots:       opts.appendSlots,
		TraceDeps:         opts.extremeDebug,
		Profile:           profile,
	}
	if len(args) > 1 {
		cfg.OldRelease = args[1]
	}
	if len(args) > 2 {
		cfg.NewRelease = args[2]
	}

	prog := newProgress(logger)
	idx, err := repo.Open(opts.repoPath)
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d package versions from %s", idx.Len(), opts.repoPath))

	seeds, err := plan.ReadSeedFile(args[0])
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}

	planner, err := plan.New(repo.Memoize(idx), cfg, logger)
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}

	prog = newProgress(logger)
	res, err := planner.Plan(ctx, seeds)
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}
	prog.done(fmt.Sprintf("Planned %d packages", len(seeds)))

	if err := writeReport(opts.output, res, opts.checkDeps); err != nil {
		return err
	}
	if opts.dotOutput != "" {
		if err := writeDOT(opts.dotOutput, res); err != nil {
			return err
		}
		printFile(opts.dotOutput)
	}
	if opts.output != "" {
		printSuccess("Report written")
		printFile(opts.output)
	}

	return nil
}

// loadProfile reads the arch profile, falling back to the built-in defaults.
func loadProfile(path string) (keyword.Profile, error) {
	if path == "" {
		return keyword.DefaultProfile(), nil
	}
	return keyword.LoadProfile(path)
}

// writeReport renders the plan to path, or to stdout when path is empty.
func writeReport(path string, res *plan.Result, checkDeps bool) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "creating report file")
		}
		defer f.Close()
		w = f
	}
	return report.Render(w, res.Items, checkDeps)
}

// writeDOT dumps the walked dependency edges as a Graphviz digraph.
func writeDOT(path string, res *plan.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "creating dot file")
	}
	defer f.Close()
	return report.WriteDOT(f, res)
}
