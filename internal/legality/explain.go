package legality

import (
	"fmt"

	"github.com/John-Robertt/deckcheck/internal/domain"
)

func reasonTooMany(card string) string {
	return fmt.Sprintf("There are more than four copies of %s present in the deck.", card)
}

func reasonBanned(card string, f domain.Format) string {
	return fmt.Sprintf("%s is Banned in %s.", card, f)
}

func reasonRestricted(card string, f domain.Format) string {
	return fmt.Sprintf("Only one copy of %s is permitted in %s as it is Restricted.", card, f)
}

func reasonNotPresent(card string, f domain.Format) string {
	return fmt.Sprintf("%s is not in the legal sets for %s.", card, f)
}

func reasonIllegal(card string, f domain.Format) string {
	return fmt.Sprintf("%s is Illegal in %s.", card, f)
}

// Explain 基于已解析的卡牌合法性，为每个赛制、每张问题卡牌生成原因（纯计算）。
//
// - 张数 > 4：每个赛制都记一条
// - BANNED / NOT_PRESENT / ILLEGAL：各一条；合法性未知按 NOT_PRESENT
// - RESTRICTED：只有张数 > 1 才记（1 张是合法的）
//
// 没有原因的赛制/卡牌不会出现在结果中。
func Explain(deck *domain.Deck) domain.Explanation {
	e := domain.Explanation{}
	if deck == nil {
		return e
	}
	for _, f := range domain.Formats() {
		for _, c := range deck.Cards() {
			n := deck.CountOf(c)
			r, known := c.Legality[f]
			if !known {
				r = domain.NotPresent
			}

			if n > domain.MaxCopies {
				e.Add(f, c.Name, reasonTooMany(c.Name))
			}
			switch r {
			case domain.Banned:
				e.Add(f, c.Name, reasonBanned(c.Name, f))
			case domain.Restricted:
				if n > 1 {
					e.Add(f, c.Name, reasonRestricted(c.Name, f))
				}
			case domain.NotPresent:
				e.Add(f, c.Name, reasonNotPresent(c.Name, f))
			case domain.Illegal:
				e.Add(f, c.Name, reasonIllegal(c.Name, f))
			}
		}
	}
	return e
}
