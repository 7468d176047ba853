package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/jmx2scenario/internal/compare"
	"github.com/agentic-research/jmx2scenario/internal/jmx"
)

var reportPath string

var compareCmd = &cobra.Command{
	Use:   "compare [original.jmx] [generated.jmx]",
	Short: "Compare two JMX files and report their element inventories",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(args[0], args[1], reportPath)
	},
	SilenceUsage: true,
}

func init() {
	compareCmd.Flags().StringVarP(&reportPath, "output", "o", "", "Report file path (default: stdout)")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(originalPath, generatedPath, reportPath string) error {
	fmt.Printf("Parsing: %s\n", originalPath)
	original, err := jmx.Load(originalPath)
	if err != nil {
		return err
	}

	fmt.Printf("Parsing: %s\n", generatedPath)
	generated, err := jmx.Load(generatedPath)
	if err != nil {
		return err
	}

	fmt.Println("Comparing...")
	report := compare.Report(originalPath, generatedPath,
		compare.Collect(original), compare.Collect(generated))

	if reportPath == "" {
		fmt.Println()
		fmt.Println(report)
		return nil
	}
	if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Report written: %s\n", reportPath)
	return nil
}
