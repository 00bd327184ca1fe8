package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wolfitem/talent-news/internal/config"
	"github.com/wolfitem/talent-news/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// sourcesCmd 以YAML格式输出生效的来源列表
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "列出生效的来源配置",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(struct {
			Sources []model.Source `yaml:"sources"`
		}{params.Sources})
		if err != nil {
			return fmt.Errorf("序列化来源配置失败: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
