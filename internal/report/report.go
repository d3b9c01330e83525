// Package report 把一次牌组检查的结果整理为对外稳定的输出结构（JSON / TTY 摘要）。
package report

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/John-Robertt/deckcheck/internal/domain"
	"github.com/John-Robertt/deckcheck/internal/legality"
)

const (
	ErrCodeLookupFailed = "lookup_failed"
	ErrCodeFetchFailed  = "fetch_failed"
	ErrCodeParseFailed  = "parse_failed"
)

// Report 是 stdout JSON / --out 文件的结构。
type Report struct {
	Deck      string    `json:"deck"`
	CheckedAt time.Time `json:"checked_at"`

	Legal     bool `json:"legal"`
	Oversized bool `json:"oversized"`

	Summary    Summary          `json:"summary"`
	Formats    []FormatResult   `json:"formats"`
	Unresolved []UnresolvedCard `json:"unresolved"`
}

type Summary struct {
	Cards        int `json:"cards"`
	Copies       int `json:"copies"`
	LegalFormats int `json:"legal_formats"`
	Unresolved   int `json:"unresolved"`
}

type FormatResult struct {
	Format      domain.Format      `json:"format"`
	Restriction domain.Restriction `json:"restriction"`
	// Cards 只在请求解释时填充；没有原因的卡牌不出现。
	Cards []CardReasons `json:"cards,omitempty"`
}

type CardReasons struct {
	Card    string   `json:"card"`
	Reasons []string `json:"reasons"`
}

type UnresolvedCard struct {
	Card      string `json:"card"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// Build 由检查结果（以及可选的解释）组装报告，并调用 Finalize。
// expl 为 nil 表示未请求解释。
func Build(deck *domain.Deck, res legality.Result, expl domain.Explanation, at time.Time) Report {
	r := Report{
		CheckedAt:  at,
		Oversized:  res.Oversized,
		Formats:    make([]FormatResult, 0, len(domain.Formats())),
		Unresolved: make([]UnresolvedCard, 0, len(res.Unresolved)),
	}
	if deck != nil {
		r.Deck = deck.Name
		r.Summary.Cards = len(deck.Cards())
		r.Summary.Copies = deck.Size()
	}

	for _, f := range domain.Formats() {
		restriction, ok := res.Verdict[f]
		if !ok {
			restriction = domain.NotPresent
		}
		fr := FormatResult{Format: f, Restriction: restriction}
		for card, reasons := range expl[f] {
			cr := CardReasons{Card: card}
			for reason := range reasons {
				cr.Reasons = append(cr.Reasons, reason)
			}
			fr.Cards = append(fr.Cards, cr)
		}
		r.Formats = append(r.Formats, fr)
	}

	for _, u := range res.Unresolved {
		msg := ""
		if u.Err != nil {
			msg = u.Err.Error()
		}
		r.Unresolved = append(r.Unresolved, UnresolvedCard{
			Card:      u.Card,
			ErrorCode: errorCode(legality.Stage(u.Err)),
			ErrorMsg:  msg,
		})
	}

	r.Finalize()
	return r
}

func errorCode(stage string) string {
	switch stage {
	case legality.StageParse:
		return ErrCodeParseFailed
	case legality.StageFetch:
		return ErrCodeFetchFailed
	default:
		return ErrCodeLookupFailed
	}
}

// Finalize 保证输出稳定：
// 1) 时间统一为 UTC
// 2) formats 按赛制固定顺序；卡牌按卡名、原因按字典序；unresolved 按卡名
// 3) legal 与 summary 由以上内容计算得出
func (r *Report) Finalize() {
	r.CheckedAt = r.CheckedAt.UTC()

	sort.SliceStable(r.Formats, func(i, j int) bool { return r.Formats[i].Format < r.Formats[j].Format })
	for i := range r.Formats {
		cards := r.Formats[i].Cards
		sort.Slice(cards, func(a, b int) bool { return cards[a].Card < cards[b].Card })
		for _, c := range cards {
			sort.Strings(c.Reasons)
		}
	}
	sort.SliceStable(r.Unresolved, func(i, j int) bool { return r.Unresolved[i].Card < r.Unresolved[j].Card })

	legalFormats := 0
	for _, fr := range r.Formats {
		if fr.Restriction == domain.Legal {
			legalFormats++
		}
	}
	r.Legal = len(r.Formats) > 0 && legalFormats == len(r.Formats)
	r.Summary.LegalFormats = legalFormats
	r.Summary.Unresolved = len(r.Unresolved)
}

// MarshalJSON 集中约束输出；当前透传 encoding/json 的默认行为。
func (r Report) MarshalJSON() ([]byte, error) {
	type Alias Report
	return json.Marshal(Alias(r))
}
