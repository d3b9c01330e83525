package domain

import (
	"fmt"
	"strings"
)

// Format 是一个锦标赛赛制。集合是开放的，但在一次运行内固定。
type Format int

const (
	Extended Format = iota
	Legacy
	Standard
	Vintage
)

var formatNames = [...]string{
	Extended: "EXTENDED",
	Legacy:   "LEGACY",
	Standard: "STANDARD",
	Vintage:  "VINTAGE",
}

// Formats 返回全部已知赛制，顺序固定；所有需要确定性遍历的地方都用它。
func Formats() []Format {
	return []Format{Extended, Legacy, Standard, Vintage}
}

func (f Format) String() string {
	if f < Extended || f > Vintage {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// ParseFormat 大小写不敏感地按名称查找赛制；未知名称返回 false。
func ParseFormat(s string) (Format, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, f := range Formats() {
		if strings.EqualFold(formatNames[f], s) {
			return f, true
		}
	}
	return 0, false
}

func (f Format) MarshalText() ([]byte, error) {
	if f < Extended || f > Vintage {
		return nil, fmt.Errorf("未知 format：%d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(b []byte) error {
	v, ok := ParseFormat(string(b))
	if !ok {
		return fmt.Errorf("未知 format：%q", string(b))
	}
	*f = v
	return nil
}
