package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/deckcheck/internal/config"
)

// loadConfig 把全局 flag 与子命令 flag 合并进配置加载；Changed 用于区分“未指定”和“显式指定为零值”。
func loadConfig(cmd *cobra.Command, c *cli) (config.EffectiveConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.EffectiveConfig{}, err
	}

	args := config.CLIArgs{ConfigPath: c.configPath}
	flags := cmd.Flags()
	if f := flags.Lookup("explain"); f != nil && f.Changed {
		args.Explain, _ = flags.GetBool("explain")
		args.ExplainSet = true
	}
	if f := flags.Lookup("page-cache"); f != nil && f.Changed {
		args.PageCacheDir, _ = flags.GetString("page-cache")
		args.PageCacheDirSet = true
	}
	if f := flags.Lookup("proxy"); f != nil && f.Changed {
		args.ProxyURL, _ = flags.GetString("proxy")
		args.ProxyURLSet = true
	}

	eff, err := config.LoadEffective(cwd, args)
	if err != nil {
		return config.EffectiveConfig{}, &exitError{code: 1, msg: err.Error()}
	}
	return eff, nil
}

func addNetworkFlags(cmd *cobra.Command) {
	cmd.Flags().String("page-cache", "", "printings 页面缓存目录（空字符串表示关闭）")
	cmd.Flags().String("proxy", "", "HTTP 代理 URL")
}
