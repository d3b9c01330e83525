package legality

import (
	"errors"
	"fmt"
)

const (
	StageLookup = "lookup" // 按卡名查询目录标识符
	StageFetch  = "fetch"  // 获取 printings 页面
	StageParse  = "parse"  // 解析 printings 页面
)

// LookupError 是单张卡牌解析失败的可追溯错误。
// 它不会中断整副牌的检查：该卡合法性留空，合并时按 NOT_PRESENT 处理。
type LookupError struct {
	Card  string
	Stage string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("card=%q stage=%s: %v", e.Card, e.Stage, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Stage 从 error 中提取失败阶段；不是 *LookupError 时返回空串。
func Stage(err error) string {
	var e *LookupError
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}
