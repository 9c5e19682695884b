// Package cmd implements flowctl's thin cobra command tree: each
// subcommand parses its flags, builds one Controller/Driver against the
// declared flow file, and makes exactly one library call. No interactive
// prompts, no TUI — spec.md's Non-goals exclude a polished CLI surface.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/flowctl/flowctl/internal/execrun"
	"github.com/flowctl/flowctl/internal/flowyaml"
	"github.com/flowctl/flowctl/internal/jobctl"
	"github.com/flowctl/flowctl/internal/remote"
	"github.com/flowctl/flowctl/internal/signal"
	"github.com/flowctl/flowctl/internal/storage"
	"github.com/flowctl/flowctl/internal/volume"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	flowPath    string
	binary      string
	apiURL      string
	apiToken    string
	projectRole string
)

var rootCmd = &cobra.Command{
	Use:           "flowctl",
	Short:         "Run declarative flow.yml jobs against a remote job-scheduling service",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flowPath, "flow", "f", "flow.yml", "path to the flow YAML file")
	rootCmd.PersistentFlags().StringVar(&binary, "binary", envOr("FLOWCTL_BINARY", "neuro"), "external CLI binary used for run/attach/browse/copy/build")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", envOr("FLOWCTL_API_URL", "https://api.flowctl.invalid"), "base URL of the remote job-scheduling API")
	rootCmd.PersistentFlags().StringVar(&apiToken, "api-token", os.Getenv("FLOWCTL_API_TOKEN"), "bearer token for the remote job-scheduling API")
	rootCmd.PersistentFlags().StringVar(&projectRole, "project-role", os.Getenv("FLOWCTL_PROJECT_ROLE"), "project role to share run/volume/image artifacts with, empty disables sharing")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(killAllCmd)
	rootCmd.AddCommand(psCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(mkvolumesCmd)
	rootCmd.AddCommand(buildCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Execute runs the root command with signal handling (Ctrl-C cancels the
// context passed down to every subcommand's RunE).
func Execute() error {
	ctx := signal.SetupSignalHandler(context.Background())
	return rootCmd.ExecuteContext(ctx)
}

// loadFlow parses the configured flow file.
func loadFlow() (*jobctl.ControllerInputs, error) {
	data, err := os.ReadFile(flowPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", flowPath, err)
	}
	flow, err := flowyaml.Parse(data, flowPath)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", flowPath, err)
	}
	sc, err := jobctl.BaseScope(flow)
	if err != nil {
		return nil, fmt.Errorf("building scope: %w", err)
	}
	return &jobctl.ControllerInputs{Flow: flow, Scope: sc}, nil
}

// newController wires a Controller against the declared flow file and the
// configured remote/subprocess/storage collaborators.
func newController() (*jobctl.Controller, *storage.Project, error) {
	inputs, err := loadFlow()
	if err != nil {
		return nil, nil, err
	}

	proj, err := storage.Open(inputs.Flow.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("opening project storage: %w", err)
	}

	deps := jobctl.Deps{
		Service:     remote.NewHTTPClient(apiURL, apiToken),
		Runner:      execrun.NewSubprocess(),
		Storage:     proj,
		Binary:      binary,
		ProjectRole: projectRole,
	}
	return jobctl.New(deps, inputs.Flow, inputs.Scope), proj, nil
}

// newVolumeDriver wires a volume.Driver against the same remote/subprocess
// collaborators the job controller uses.
func newVolumeDriver() *volume.Driver {
	return &volume.Driver{
		Runner:      execrun.NewSubprocess(),
		Service:     remote.NewHTTPClient(apiURL, apiToken),
		Binary:      binary,
		ProjectRole: projectRole,
	}
}

func exitAvailableJobs(c *jobctl.Controller) {
	fmt.Fprintln(os.Stderr, "available jobs:")
	for _, id := range c.AvailableJobIDs() {
		fmt.Fprintf(os.Stderr, "  %s\n", id)
	}
}
