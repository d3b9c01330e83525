package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/John-Robertt/deckcheck/internal/deckfile"
	"github.com/John-Robertt/deckcheck/internal/infra/fsx"
	"github.com/John-Robertt/deckcheck/internal/legality"
	"github.com/John-Robertt/deckcheck/internal/report"
)

func newCheckCmd(c *cli) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "check <deck.toml>",
		Short: "检查一副牌在各赛制下的合法性",
		Long: `读取 TOML 牌组文件，逐张查询合法性后输出整副牌的结论。

退出码：0 表示检查完成且所有卡牌均已解析；1 表示有卡牌未能获取合法性或运行失败；2 表示参数错误。
牌组本身不合法不影响退出码，结论见报告。`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &exitError{code: 2, msg: fmt.Sprintf("check 需要且只需要一个牌组文件，实际 %d 个", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			eff, err := loadConfig(cmd, c)
			if err != nil {
				return err
			}

			deck, err := deckfile.Load(args[0])
			if err != nil {
				return &exitError{code: 1, msg: err.Error()}
			}

			v, err := newValidator(eff, c.logger)
			if err != nil {
				return &exitError{code: 1, msg: fmt.Sprintf("初始化目录客户端失败：%v", err)}
			}

			ctx := cmd.Context()
			c.logger.Debug("开始检查牌组",
				zap.String("deck", deck.Name),
				zap.Int("cards", len(deck.Cards())),
				zap.Int("copies", deck.Size()))

			var res legality.Result
			if eff.Explain {
				res = v.CheckAndExplain(ctx, deck)
			} else {
				res = v.CheckDeck(ctx, deck)
			}
			r := report.Build(deck, res, res.Explanation, time.Now())

			if outPath != "" {
				if err := writeReportFile(outPath, r); err != nil {
					emitReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), r)
					return &exitError{code: 1, msg: fmt.Sprintf("写入报告失败：%v", err)}
				}
			}

			emitReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), r)
			if r.Summary.Unresolved > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().Bool("explain", false, "输出每个赛制下各卡牌的不合法原因；支持 --explain=false 覆盖配置")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "额外把 JSON 报告原子写入该文件")
	addNetworkFlags(cmd)
	return cmd
}

func writeReportFile(path string, r report.Report) error {
	b, err := marshalReport(r)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return fsx.WriteFileAtomic(filepath.Dir(abs), filepath.Base(abs), b)
}
