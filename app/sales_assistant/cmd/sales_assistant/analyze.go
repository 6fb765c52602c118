package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/internal/biz"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/generation"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/logger"
)

// analyzeOptions analyze 子命令参数
type analyzeOptions struct {
	record      biz.InputRecord
	temperature float32
	maxTokens   int
	interactive bool
	jsonOutput  bool
}

func newAnalyzeCmd() (*cobra.Command, *analyzeOptions) {
	o := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one analysis and print the insight report",
		Long:  "Search the company URL, assemble the analyst prompt and print the generated insights. Product name and company URL are required.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.record.ProductName, "product-name", "", "What product are you selling? (required)")
	f.StringVar(&o.record.ProductCategory, "product-category", "", "Product category, e.g. 'Data Warehousing'")
	f.StringVar(&o.record.CompanyURL, "company-url", "", "The URL of the product's company (required)")
	f.StringVar(&o.record.Competitors, "competitors", "", "Competitors list, e.g. Apple, Tesla, Google")
	f.StringVar(&o.record.CompetitorsURL, "competitors-url", "", "Competitors URL, e.g. www.apple.com")
	f.StringVar(&o.record.TargetCustomer, "target-customer", "", "Who are you selling to?")
	f.StringVar(&o.record.ValueProposition, "value-proposition", "", "Summarize the product's value")
	f.Float32Var(&o.temperature, "temperature", 0, "Sampling temperature in [0, 1] (default from config)")
	f.IntVar(&o.maxTokens, "max-tokens", 0, "Max output tokens in [100, 3000] (default from config)")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "Fill in the form interactively")
	f.BoolVar(&o.jsonOutput, "json", false, "Print the report as JSON")

	return cmd, o
}

func init() {
	cmd, _ := newAnalyzeCmd()
	rootCmd.AddCommand(cmd)
}

// settings 只有显式传入的参数覆盖配置默认值
func (o *analyzeOptions) settings(cmd *cobra.Command, defaults generation.Settings) generation.Settings {
	st := defaults
	if cmd.Flags().Changed("temperature") {
		st.Temperature = o.temperature
	}
	if cmd.Flags().Changed("max-tokens") {
		st.MaxOutputTokens = o.maxTokens
	}
	return st
}

func runAnalyze(cmd *cobra.Command, o *analyzeOptions) error {
	cfg, l, err := setup(flagconf)
	if err != nil {
		return err
	}
	// 报告输出到 stdout，日志改走 stderr
	if cfg.Log.File == "" {
		logger.Log.SetOutput(os.Stderr)
	}

	rec := o.record
	if o.interactive {
		if rec, err = askRecord(surveyAsker{}, rec); err != nil {
			return err
		}
	}

	// 先校验输入，缺少必填字段时不必初始化外部服务
	if err := rec.Normalize().Validate(); err != nil {
		return err
	}
	settings := o.settings(cmd, generation.DefaultSettings(&cfg.Generation))
	if err := biz.ValidateSettings(settings); err != nil {
		return err
	}

	ctx := context.Background()
	analyzer, err := newAnalyzer(ctx, cfg, prometheus.NewRegistry(), l)
	if err != nil {
		return err
	}

	report, err := analyzer.Analyze(ctx, rec, settings)
	if err != nil {
		return err
	}
	return printReport(cmd.OutOrStdout(), report, o.jsonOutput)
}

func printReport(w io.Writer, r *biz.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"submission_id": r.SubmissionID.String(),
			"report":        r.Content,
			"sources":       r.Sources,
		})
	}

	fmt.Fprintln(w, r.Content)
	if len(r.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for i, s := range r.Sources {
			fmt.Fprintf(w, "  [%d] %s (%s)\n", i+1, s.Title, s.URL)
		}
	}
	return nil
}
