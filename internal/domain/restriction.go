package domain

import (
	"fmt"
	"strings"
)

// Restriction 是卡牌（或整副牌）在某个赛制下的合法性等级。
//
// 不变量：严格程度只由序号决定，顺序固定为
// LEGAL < RESTRICTED < BANNED < NOT_PRESENT < ILLEGAL。
// 所有合并逻辑都依赖这个全序，不要调整常量顺序。
type Restriction int

const (
	Legal Restriction = iota
	Restricted
	Banned
	NotPresent
	Illegal
)

var restrictionNames = [...]string{
	Legal:      "LEGAL",
	Restricted: "RESTRICTED",
	Banned:     "BANNED",
	NotPresent: "NOT_PRESENT",
	Illegal:    "ILLEGAL",
}

// Restrictions 按严格程度从低到高返回全部等级。
func Restrictions() []Restriction {
	return []Restriction{Legal, Restricted, Banned, NotPresent, Illegal}
}

func (r Restriction) String() string {
	if r < Legal || r > Illegal {
		return fmt.Sprintf("Restriction(%d)", int(r))
	}
	return restrictionNames[r]
}

// MoreRestrictiveThan 当且仅当 r 的序号严格大于 other 时返回 true（非自反）。
func (r Restriction) MoreRestrictiveThan(other Restriction) bool {
	return r > other
}

// ParseRestriction 按名称（大小写不敏感）查找等级。
// 站点上的 "Not Present" 这类写法会先把空格/连字符规整为 '_'。
// 未知名称返回 false，不是错误。
func ParseRestriction(s string) (Restriction, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.Join(strings.Fields(s), "_")
	s = strings.ReplaceAll(s, "-", "_")
	for _, r := range Restrictions() {
		if strings.EqualFold(restrictionNames[r], s) {
			return r, true
		}
	}
	return 0, false
}

func (r Restriction) MarshalText() ([]byte, error) {
	if r < Legal || r > Illegal {
		return nil, fmt.Errorf("未知 restriction：%d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Restriction) UnmarshalText(b []byte) error {
	v, ok := ParseRestriction(string(b))
	if !ok {
		return fmt.Errorf("未知 restriction：%q", string(b))
	}
	*r = v
	return nil
}
