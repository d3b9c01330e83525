package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// exitError 携带进程退出码；消息已经输出过时 msg 为空。
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func exitCode(err error) int {
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return 1
}

// cli 保存全局 flag 与运行期依赖；测试可以替换 newLogger 与输出流。
type cli struct {
	verbose    bool
	configPath string

	logger    *zap.Logger
	newLogger func(verbose bool) (*zap.Logger, error)
}

func productionLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func newRootCmd(c *cli) *cobra.Command {
	if c.newLogger == nil {
		c.newLogger = productionLogger
	}

	root := &cobra.Command{
		Use:   "deckcheck",
		Short: "检查万智牌牌组在各赛制下的合法性",
		Long: `deckcheck 从在线卡牌目录获取每张卡的赛制合法性，合并为整副牌的结论。

stdout 为终端时输出彩色摘要；否则 stdout 只输出一个 JSON 报告（日志与摘要走 stderr）。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.newLogger(c.verbose)
			if err != nil {
				return fmt.Errorf("初始化日志失败：%w", err)
			}
			c.logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &exitError{code: 2, msg: err.Error()}
	})
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "输出 debug 日志")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "配置文件路径（默认读取当前目录的 deckcheck.json，可选）")

	root.AddCommand(newCheckCmd(c), newLookupCmd(c))
	return root
}

func run(ctx context.Context, c *cli, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(stderr, "错误：%s\n", msg)
		}
		return exitCode(err)
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, &cli{}, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
