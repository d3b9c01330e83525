package legality

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/John-Robertt/deckcheck/internal/domain"
)

// Unresolved 记录一张合法性未能获取的卡牌。
// 这类卡牌在结论中按 NOT_PRESENT 处理，但调用方可以据此区分“网络失败”和“确实不合法”。
type Unresolved struct {
	Card string
	Err  error
}

// Result 是一次牌组检查的完整结果。
type Result struct {
	Verdict    domain.Verdict
	Unresolved []Unresolved
	// Oversized 表示因单卡超过 4 张而短路为全部 ILLEGAL（不请求解释时不做任何查询）。
	Oversized bool
	// Explanation 只由 CheckAndExplain 填充。
	Explanation domain.Explanation
}

// Validator 驱动 Cache + Merge，对整副牌给出各赛制结论。
//
// 约束：同一个 Validator（及其 Cache）同一时刻只处理一个请求，内部加锁串行化；
// 牌组本身的修改仍需调用方保证不与检查并发。
type Validator struct {
	mu    sync.Mutex
	cache *Cache
	log   *zap.Logger
}

type Option func(*Validator)

func WithLogger(l *zap.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

func NewValidator(cache *Cache, opts ...Option) *Validator {
	v := &Validator{
		cache: cache,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// CheckDeckLegality 返回整副牌的结论。单卡查询失败不会中断检查。
func (v *Validator) CheckDeckLegality(ctx context.Context, deck *domain.Deck) domain.Verdict {
	return v.CheckDeck(ctx, deck).Verdict
}

// CheckDeck 与 CheckDeckLegality 相同，但额外返回未能解析的卡牌。
// 幂等：牌组不变时重复调用得到相同结论（第二次由缓存命中，不访问网络）。
func (v *Validator) CheckDeck(ctx context.Context, deck *domain.Deck) Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.check(ctx, deck, false)
}

// CheckAndExplain 在同一轮解析中同时给出结论与解释：每张卡牌最多请求一次，
// 失败的卡牌只出现在 Result.Unresolved 中，解释按 NOT_PRESENT 给出原因。
// 超过 4 张的牌组仍会逐卡解析，以便给出完整原因。
func (v *Validator) CheckAndExplain(ctx context.Context, deck *domain.Deck) Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.check(ctx, deck, true)
}

// Explain 只返回解释，等价于 CheckAndExplain(ctx, deck).Explanation。
// 需要结论时直接用 CheckAndExplain，避免对失败卡牌重复请求。
func (v *Validator) Explain(ctx context.Context, deck *domain.Deck) domain.Explanation {
	return v.CheckAndExplain(ctx, deck).Explanation
}

func (v *Validator) check(ctx context.Context, deck *domain.Deck, explain bool) Result {
	if deck == nil {
		res := Result{Verdict: domain.Verdict{}}
		if explain {
			res.Explanation = domain.Explanation{}
		}
		return res
	}

	oversized := Oversized(deck)
	if oversized {
		v.log.Info("牌组存在超过 4 张的单卡，全部赛制判定为 ILLEGAL",
			zap.String("deck", deck.Name), zap.Int("max_count", deck.MaxCount()))
		if !explain {
			return Result{Verdict: domain.AllIllegal(), Oversized: true}
		}
	}

	res := Result{
		Unresolved: v.resolveAll(ctx, deck),
		Oversized:  oversized,
	}
	res.Verdict = Compute(deck)
	if explain {
		res.Explanation = Explain(deck)
	}
	return res
}

func (v *Validator) resolveAll(ctx context.Context, deck *domain.Deck) []Unresolved {
	var out []Unresolved
	for _, c := range deck.Cards() {
		before := v.cache.Stats().Hits
		if _, err := v.cache.Resolve(ctx, c); err != nil {
			v.log.Warn("获取卡牌合法性失败，按 NOT_PRESENT 处理",
				zap.String("deck", deck.Name),
				zap.String("card", c.Name),
				zap.String("stage", Stage(err)),
				zap.Error(err))
			out = append(out, Unresolved{Card: c.Name, Err: err})
			continue
		}
		if v.cache.Stats().Hits > before {
			v.log.Debug("缓存命中", zap.String("card", c.Name))
		} else {
			v.log.Debug("已获取卡牌合法性", zap.String("card", c.Name), zap.Ints("multiverse_ids", c.SortedIDs()))
		}
	}
	return out
}
