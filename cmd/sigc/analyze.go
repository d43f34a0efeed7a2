package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/sig/compiler"
)

func analyzeCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Report how component bindings are compiled",
		Long: `Compile components and report the classification of their root
bindings: which are plain, which become signals, props, computeds or store
subscriptions.

Examples:
  sigc analyze Counter.sig
  sigc analyze Counter.sig --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var reports []*compiler.Report
			for _, file := range args {
				src, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				res, err := compiler.CompileContext(cmd.Context(), string(src), a.options(file, ""))
				if err != nil {
					return err
				}
				reports = append(reports, compiler.NewReport(file, res))
			}
			return writeReports(cmd.OutOrStdout(), format, reports)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	return cmd
}

func writeReports(w io.Writer, format string, reports []*compiler.Report) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", format)
	}
}
