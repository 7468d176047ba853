// Package cmd wires the converter into a CLI.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/agentic-research/jmx2scenario/internal/jmx"
	"github.com/agentic-research/jmx2scenario/internal/profile"
	"github.com/agentic-research/jmx2scenario/internal/scenario"
)

// Exit codes, partitioned by failure phase.
const (
	exitSuccess    = 0
	exitParseError = 1
	exitConversion = 2
	exitIOError    = 3
)

var (
	outputPath  string
	profilePath string
	verbose     bool
)

var (
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "pt_scenario.yaml", "Output YAML file path")
	rootCmd.Flags().StringVar(&profilePath, "profile", "", "Optional HCL conversion profile")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")
}

var rootCmd = &cobra.Command{
	Use:   "jmx2scenario [input.jmx]",
	Short: "Convert a JMeter JMX test plan to pt_scenario.yaml",
	Args:  cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(args[0], outputPath, profilePath)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func runConvert(inputPath, outputPath, profilePath string) error {
	fmt.Println("JMX to pt_scenario.yaml Converter")
	fmt.Println()
	fmt.Printf("Input:  %s\n", inputPath)
	fmt.Printf("Output: %s\n\n", outputPath)

	parser := jmx.New()
	if profilePath != "" {
		prof, err := profile.Load(profilePath)
		if err != nil {
			return fmt.Errorf("conversion: %w", err)
		}
		parser.Skip = prof.SkipMap()
		parser.ExtraHeaders = prof.HeaderMap()
		parser.ExtraVariables = prof.VariableMap()
	}

	slog.Debug("parsing JMX file", "path", inputPath)
	result, err := parser.Parse(inputPath)
	if err != nil {
		fmt.Println(errStyle.Render("Error: Failed to parse JMX file"))
		fmt.Println(errStyle.Render("  - " + err.Error()))
		return err
	}
	for _, e := range result.Errors {
		fmt.Println(errStyle.Render("  - " + e))
	}

	slog.Debug("building scenario", "samplers", len(result.Samplers))
	builder := scenario.NewBuilder()
	scn := builder.Build(result.Name, result.Samplers, result.Settings, result.Variables, "")

	slog.Debug("writing YAML file", "path", outputPath)
	writer := scenario.NewWriter()
	if err := writer.Write(scn, outputPath); err != nil {
		fmt.Println(errStyle.Render("Output error: " + err.Error()))
		return err
	}

	fmt.Println("Extracted:")
	fmt.Printf("  - Scenario name: %s\n", scn.Name)
	if scn.Settings.BaseURL != "" {
		fmt.Printf("  - Base URL: %s\n", scn.Settings.BaseURL)
	}
	fmt.Printf("  - Variables: %d\n", len(scn.Variables))
	fmt.Printf("  - Steps: %d\n", len(scn.Steps))

	captureCount, assertCount := 0, 0
	for _, step := range scn.Steps {
		captureCount += len(step.Captures)
		if len(step.Assert) > 0 {
			assertCount++
		}
	}
	fmt.Printf("  - Captures: %d\n", captureCount)
	fmt.Printf("  - Assertions: %d\n\n", assertCount)

	if len(result.Warnings) > 0 {
		fmt.Println(warnStyle.Render("Warnings:"))
		for _, w := range result.Warnings {
			fmt.Println(warnStyle.Render("  - " + w))
		}
		fmt.Println()
	}

	fmt.Println(okStyle.Render("Conversion complete!"))
	return nil
}

// Execute runs the root command, mapping error types to phase-partitioned
// exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var parseErr *jmx.ParseError
	if errors.As(err, &parseErr) {
		return exitParseError
	}
	var writeErr *scenario.WriteError
	if errors.As(err, &writeErr) {
		return exitIOError
	}
	return exitConversion
}
