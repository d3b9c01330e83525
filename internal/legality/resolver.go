package legality

import "github.com/John-Robertt/deckcheck/internal/domain"

// Merge 把一张卡牌的合法性合并进当前整副牌结论，返回新的结论（不修改入参）。
//
// 规则（按 domain.Formats() 的固定顺序逐赛制处理）：
// - 卡牌未提及的赛制按 NOT_PRESENT 参与合并（缺数据偏向不合法，而不是 LEGAL）
// - 结论中尚无该赛制：直接采用卡牌的等级
// - 否则只有严格更严格时才覆盖；相等或更宽松保持不变
//
// 结果等价于逐赛制取最大严格程度，与卡牌合并顺序无关。
func Merge(card domain.Legality, soFar domain.Verdict) domain.Verdict {
	out := soFar.Clone()
	for _, f := range domain.Formats() {
		r, ok := card[f]
		if !ok {
			r = domain.NotPresent
		}
		cur, seen := out[f]
		if !seen || r.MoreRestrictiveThan(cur) {
			out[f] = r
		}
	}
	return out
}

// DowngradeRestricted 是所有卡牌合并完成后的一次性修正：
// 结论为 RESTRICTED 的赛制，如果该赛制下所有 RESTRICTED 卡牌的最大张数恰好为 1，则降为 LEGAL。
// 只在合并全部完成后调用一次，不能与逐卡合并交错。
func DowngradeRestricted(v domain.Verdict, deck *domain.Deck) domain.Verdict {
	out := v.Clone()
	for _, f := range domain.Formats() {
		if out[f] != domain.Restricted {
			continue
		}
		if maxRestrictedCount(deck, f) == 1 {
			out[f] = domain.Legal
		}
	}
	return out
}

func maxRestrictedCount(deck *domain.Deck, f domain.Format) int {
	max := 0
	for _, c := range deck.Cards() {
		if r, ok := c.Legality[f]; !ok || r != domain.Restricted {
			continue
		}
		if n := deck.CountOf(c); n > max {
			max = n
		}
	}
	return max
}

// Oversized 表示牌组中存在超过 domain.MaxCopies 张的单卡。
// 这是整副牌级别的违规：结论直接为全部 ILLEGAL，跳过逐卡分析。
func Oversized(deck *domain.Deck) bool {
	return deck.MaxCount() > domain.MaxCopies
}

// Compute 在卡牌合法性已经解析完毕的前提下计算整副牌结论（纯计算，不访问网络）。
func Compute(deck *domain.Deck) domain.Verdict {
	if Oversized(deck) {
		return domain.AllIllegal()
	}
	v := domain.Verdict{}
	for _, c := range deck.Cards() {
		v = Merge(c.Legality, v)
	}
	return DowngradeRestricted(v, deck)
}
