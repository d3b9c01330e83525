package catalog

import (
	"strconv"
	"strings"
)

const idToken = "multiverseid="

// ParseMultiverseID 从任意文本中读取第一个 multiverseid。
//
// 这是有意保持简单的文本抓取（没有 schema 保证）：定位第一个字面量 "multiverseid="，
// 截取到下一个 '"'（没有则到文本末尾），再取开头的数字串。
// 找不到 token 或没有数字时返回 ErrNotFound。
func ParseMultiverseID(text string) (int, error) {
	i := strings.Index(text, idToken)
	if i < 0 {
		return 0, ErrNotFound
	}
	rest := text[i+len(idToken):]
	if j := strings.IndexByte(rest, '"'); j >= 0 {
		rest = rest[:j]
	}

	n := 0
	for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	id, err := strconv.Atoi(rest[:n])
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}
