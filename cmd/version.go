package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// 构建信息，发布时通过 -ldflags "-X github.com/wolfitem/talent-news/cmd.Version=..." 注入
var (
	Version = "dev"
	Commit  = "unknown"
)

// versionString 返回版本、提交和Go运行时信息
func versionString() string {
	return fmt.Sprintf("talent-news %s (commit %s, %s %s/%s)",
		Version, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本和构建信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(versionString() + "\n")
}
