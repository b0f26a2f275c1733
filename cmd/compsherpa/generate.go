package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/compsherpa/compsherpa/internal/llm"
	"github.com/compsherpa/compsherpa/internal/observability"
	"github.com/compsherpa/compsherpa/internal/report"
	"github.com/compsherpa/compsherpa/internal/schemas"
	"github.com/compsherpa/compsherpa/internal/types"
)

func newGenerateCmd(configPath *string) *cobra.Command {
	var (
		profilePath string
		outputPath  string
		format      string
		offline     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report for a profile JSON file",
		Long: "Generate a salary and negotiation report for a profile JSON file and print it as JSON " +
			"or as a text summary. Nothing is cached or saved.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown format %q (want json or text)", format)
			}
			cfg, logger, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			data, err := os.ReadFile(profilePath)
			if err != nil {
				return fmt.Errorf("failed to read profile file: %w", err)
			}
			if err := schemas.ValidateProfileJSON(string(data)); err != nil {
				return err
			}
			var p types.Profile
			if err := json.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("failed to parse profile: %w", err)
			}

			ctx := context.Background()
			var client llm.Client = &llm.UnavailableClient{Provider: llm.Provider(cfg.Provider.Name)}
			if !offline {
				if client, err = newProviderClient(ctx, cfg.Provider); err != nil {
					return err
				}
			}
			defer func() { _ = client.Close() }()

			res, err := newGenerator(client, cfg, nil, nil, logger).Generate(ctx, &p, "")
			if err != nil {
				return err
			}

			out, err := renderReport(res, format)
			if err != nil {
				return err
			}

			if outputPath == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(outputPath, out, 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Path to profile JSON file (required)")
	cmd.Flags().StringVarP(&outputPath, "out", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the hosted model and use the rule-based estimate")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func renderReport(res *report.Result, format string) ([]byte, error) {
	if format == "text" {
		var buf bytes.Buffer
		observability.NewPrinter(&buf).PrintReport(res.Report, string(res.Source))
		return buf.Bytes(), nil
	}

	out, err := json.MarshalIndent(types.GenerateReportResponse{
		Success:     true,
		Report:      res.Report,
		IsExploring: res.IsExploring,
		GeneratedAt: res.GeneratedAt,
		Fingerprint: res.Fingerprint,
		Source:      string(res.Source),
		Cached:      res.Cached,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(out, '\n'), nil
}
