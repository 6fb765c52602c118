// Sales Assistant 入口：serve 启动表单页与 API，analyze 在终端完成一次分析。
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 服务名称
	Name = "sales_assistant"
	// Version 服务版本号
	Version string

	id, _ = os.Hostname()
)

var flagconf string

var rootCmd = &cobra.Command{
	Use:          "sales_assistant",
	Short:        "Company insight generator for sales teams",
	Long:         "Sales Assistant searches a company's web presence and asks an LLM for an overview, competitive analysis and recommendations.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagconf, "conf", "", "config path, eg: --conf app/sales_assistant/configs/config.yaml (empty uses defaults and environment)")
}

func main() {
	// .env 不存在时忽略
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
