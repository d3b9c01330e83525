package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound 表示响应中找不到目录标识符（multiverseid）。
var ErrNotFound = errors.New("未找到 multiverseid")

// NotFoundError 表示按卡名查询目录标识符失败。
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("卡牌 %q：%v", e.Name, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// HTTPStatusError 表示目录站点返回了非 2xx 的 HTTP 状态码。
// 3xx 时 Location 保存跳转目标：重定向不跟随，标识符直接从 Location 文本中读取。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d location=%s", e.StatusCode, loc)
}

// Redirect 表示该响应是一次未跟随的重定向。
func (e *HTTPStatusError) Redirect() bool {
	return e != nil && e.StatusCode >= 300 && e.StatusCode < 400
}

// ParseError 表示页面无法解析（而不是“没有合法性表格”，后者返回空结果）。
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("解析页面失败：%v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParse 判断 err 是否为解析阶段的错误。
func IsParse(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}
