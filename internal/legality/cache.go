package legality

import (
	"context"
	"errors"

	"github.com/John-Robertt/deckcheck/internal/catalog"
	"github.com/John-Robertt/deckcheck/internal/domain"
)

// Source 是目录数据来源；*catalog.Client 实现了它。
type Source interface {
	LookupID(ctx context.Context, name string) (int, error)
	Legality(ctx context.Context, id int) (domain.Legality, error)
}

// Stats 记录缓存的使用情况。
type Stats struct {
	Hits     int
	Misses   int
	Failures int
}

// Cache 按卡牌身份记忆解析结果：已解析的卡牌不会再次请求网络。
//
// 约束：
// - key 是 Card.Key()（卡名 + 标识符集合 + 已解析合法性），未解析与已解析的同名卡牌是不同的 key
// - 进程内有效，不做失效；生命周期由调用方控制（显式构造、复用、丢弃）
// - 非并发安全：同一时刻只允许一个检查（Validator 负责串行化）
type Cache struct {
	src      Source
	resolved map[string]domain.Legality
	stats    Stats
}

func NewCache(src Source) *Cache {
	return &Cache{
		src:      src,
		resolved: make(map[string]domain.Legality),
	}
}

// Resolve 返回卡牌的合法性。
//
// 未命中时：标识符缺失则先按卡名查询（并记录到卡牌上），再获取 printings 页面，
// 原地写入卡牌的合法性，然后以新的身份 key 写入缓存。
// 失败时卡牌合法性保持原样、不写入缓存，返回 *LookupError。
func (c *Cache) Resolve(ctx context.Context, card *domain.Card) (domain.Legality, error) {
	if card == nil {
		return nil, errors.New("card 不能为空")
	}
	if l, ok := c.resolved[card.Key()]; ok {
		c.stats.Hits++
		return l.Clone(), nil
	}
	c.stats.Misses++

	if c.src == nil {
		c.stats.Failures++
		return nil, &LookupError{Card: card.Name, Stage: StageFetch, Err: errors.New("source 不能为空")}
	}

	id, ok := card.PrimaryID()
	if !ok {
		got, err := c.src.LookupID(ctx, card.Name)
		if err != nil {
			c.stats.Failures++
			return nil, &LookupError{Card: card.Name, Stage: StageLookup, Err: err}
		}
		card.AddID(got)
		id = got
	}

	l, err := c.src.Legality(ctx, id)
	if err != nil {
		c.stats.Failures++
		stage := StageFetch
		if catalog.IsParse(err) {
			stage = StageParse
		}
		return nil, &LookupError{Card: card.Name, Stage: stage, Err: err}
	}

	for f, r := range l {
		card.SetFormat(f, r)
	}
	c.resolved[card.Key()] = card.Legality.Clone()
	return card.Legality.Clone(), nil
}

func (c *Cache) Len() int { return len(c.resolved) }

func (c *Cache) Stats() Stats { return c.stats }
