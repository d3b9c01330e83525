package domain

import "strings"

// MaxCopies 是单次 Add 允许写入的最大张数，也是合法牌组中单卡的上限。
const MaxCopies = 4

// Deck 是具名牌组：卡牌 + 张数。只能通过 Add/AddWithID 修改。
//
// 并发：Deck 不做内部加锁，调用方需保证同一时刻只有一个修改或检查。
type Deck struct {
	Name string

	cards  []*Card
	counts map[*Card]int
}

func NewDeck(name string) *Deck {
	return &Deck{
		Name:   strings.TrimSpace(name),
		counts: make(map[*Card]int),
	}
}

// Add 按卡名加入 count 张。
//
// 规则：
// - count <= 0 或卡名为空：忽略
// - 单次写入的 count 截断为 MaxCopies（截断而非拒绝）
// - 同名卡已存在：累加张数（累加结果不再截断，超过 4 张由合法性计算判定为 ILLEGAL）
func (d *Deck) Add(name string, count int) *Card {
	return d.AddWithID(name, 0, count)
}

// AddWithID 与 Add 相同，但额外记录已知的目录标识符（id <= 0 表示未知）。
func (d *Deck) AddWithID(name string, id, count int) *Card {
	name = strings.TrimSpace(name)
	if name == "" || count <= 0 {
		return nil
	}
	if count > MaxCopies {
		count = MaxCopies
	}
	if d.counts == nil {
		d.counts = make(map[*Card]int)
	}

	c := d.Card(name)
	if c == nil {
		c = NewCard(name)
		d.cards = append(d.cards, c)
	}
	c.AddID(id)
	d.counts[c] += count
	return c
}

// Card 按卡名（精确匹配）返回牌组中的卡牌；不存在返回 nil。
func (d *Deck) Card(name string) *Card {
	name = strings.TrimSpace(name)
	for _, c := range d.cards {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Cards 按加入顺序返回去重后的卡牌。返回的切片可以安全修改，卡牌指针与牌组共享。
func (d *Deck) Cards() []*Card {
	return append([]*Card(nil), d.cards...)
}

// Count 返回卡名对应的张数；不存在返回 -1。
func (d *Deck) Count(name string) int {
	c := d.Card(name)
	if c == nil {
		return -1
	}
	return d.counts[c]
}

// CountOf 返回某张卡牌的张数；不属于该牌组返回 -1。
func (d *Deck) CountOf(c *Card) int {
	n, ok := d.counts[c]
	if !ok {
		return -1
	}
	return n
}

// MaxCount 返回牌组中单卡的最大张数；空牌组为 0。
func (d *Deck) MaxCount() int {
	max := 0
	for _, c := range d.cards {
		if n := d.counts[c]; n > max {
			max = n
		}
	}
	return max
}

// Size 返回牌组总张数。
func (d *Deck) Size() int {
	total := 0
	for _, c := range d.cards {
		total += d.counts[c]
	}
	return total
}
