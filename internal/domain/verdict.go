package domain

// Verdict 是整副牌在各赛制下的结论。
type Verdict map[Format]Restriction

func (v Verdict) Clone() Verdict {
	out := make(Verdict, len(v))
	for f, r := range v {
		out[f] = r
	}
	return out
}

// Legal 当且仅当每个已知赛制都有结论且均为 LEGAL。
func (v Verdict) Legal() bool {
	for _, f := range Formats() {
		if r, ok := v[f]; !ok || r != Legal {
			return false
		}
	}
	return true
}

// AllIllegal 返回所有已知赛制均为 ILLEGAL 的结论（用于整副牌级别的违规）。
func AllIllegal() Verdict {
	v := make(Verdict, len(Formats()))
	for _, f := range Formats() {
		v[f] = Illegal
	}
	return v
}

// ReasonSet 是去重的原因集合。
type ReasonSet map[string]struct{}

func (s ReasonSet) Add(reason string) { s[reason] = struct{}{} }

func (s ReasonSet) Has(reason string) bool {
	_, ok := s[reason]
	return ok
}

// Explanation: 赛制 -> 卡名 -> 原因集合。
type Explanation map[Format]map[string]ReasonSet

// Add 记录一条原因，按需创建中间层。
func (e Explanation) Add(f Format, card, reason string) {
	byCard, ok := e[f]
	if !ok {
		byCard = make(map[string]ReasonSet)
		e[f] = byCard
	}
	rs, ok := byCard[card]
	if !ok {
		rs = make(ReasonSet)
		byCard[card] = rs
	}
	rs.Add(reason)
}

// Reasons 返回某赛制下某卡牌的原因集合；没有时返回 nil。
func (e Explanation) Reasons(f Format, card string) ReasonSet {
	return e[f][card]
}
