package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Legality 是单张卡牌在各赛制下的合法性。
//
// 缺少某个 key 表示“未知”，与显式的 NotPresent 不同。
type Legality map[Format]Restriction

// Clone 返回浅拷贝；nil 输入返回空 map。
func (l Legality) Clone() Legality {
	out := make(Legality, len(l))
	for f, r := range l {
		out[f] = r
	}
	return out
}

// Card 是卡牌身份：印刷名 + 已知的目录标识符（每个印刷版本一个）+ 已解析的合法性。
//
// 相等性同时比较三者：未解析合法性的卡牌与已解析的同名卡牌是不同的缓存 key。
type Card struct {
	Name     string
	IDs      map[int]struct{}
	Legality Legality
}

// NewCard 创建一张尚未解析的卡牌。id <= 0 会被忽略（标识符延迟解析）。
func NewCard(name string, ids ...int) *Card {
	c := &Card{
		Name:     strings.TrimSpace(name),
		IDs:      make(map[int]struct{}, len(ids)),
		Legality: make(Legality),
	}
	for _, id := range ids {
		c.AddID(id)
	}
	return c
}

// AddID 记录一个目录标识符；非正数忽略。
func (c *Card) AddID(id int) {
	if id <= 0 {
		return
	}
	if c.IDs == nil {
		c.IDs = make(map[int]struct{})
	}
	c.IDs[id] = struct{}{}
}

func (c *Card) RemoveID(id int) { delete(c.IDs, id) }

// SortedIDs 返回升序的标识符列表。
func (c *Card) SortedIDs() []int {
	ids := make([]int, 0, len(c.IDs))
	for id := range c.IDs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// PrimaryID 返回最小的标识符；没有时 ok=false。
func (c *Card) PrimaryID() (int, bool) {
	ids := c.SortedIDs()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

func (c *Card) SetFormat(f Format, r Restriction) {
	if c.Legality == nil {
		c.Legality = make(Legality)
	}
	c.Legality[f] = r
}

func (c *Card) ClearFormat(f Format) { delete(c.Legality, f) }

// Resolved 表示合法性 map 至少有一个条目。
func (c *Card) Resolved() bool { return len(c.Legality) > 0 }

// Key 把身份的三个组成部分渲染成稳定字符串，用作缓存 key。
func (c *Card) Key() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString("|")
	for i, id := range c.SortedIDs() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
	b.WriteString("|")
	first := true
	for _, f := range Formats() {
		r, ok := c.Legality[f]
		if !ok {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(f.String())
		b.WriteByte('=')
		b.WriteString(r.String())
	}
	return b.String()
}

func (c *Card) Equal(o *Card) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Key() == o.Key()
}

func (c *Card) String() string {
	ids := c.SortedIDs()
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return "MTG Card - " + c.Name + ", Multiverse Ids: " + strings.Join(parts, ", ")
}
