package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/logger"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search/factory"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (form page, JSON API and metrics)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, l, err := setup(flagconf)
	if err != nil {
		return err
	}

	app, err := initApp(context.Background(), cfg, l)
	if err != nil {
		return err
	}

	logger.Log.Infof("HTTP 服务监听 %s，搜索服务: %s，模型: %s", cfg.Server.HTTP.Addr, factory.ResolveProvider(&cfg.Search), cfg.LLM.Model)
	return app.Run()
}
