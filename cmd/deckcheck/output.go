package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/John-Robertt/deckcheck/internal/domain"
	"github.com/John-Robertt/deckcheck/internal/report"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func marshalReport(r report.Report) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// emitReport：stdout 为终端时输出彩色摘要；否则 stdout 必须且仅输出一个 Report JSON，摘要走 stderr。
func emitReport(stdout, stderr io.Writer, r report.Report) {
	if isTerminal(stdout) {
		renderReport(stdout, r)
		renderUnresolved(stderr, r)
		return
	}

	enc := json.NewEncoder(stdout)
	_ = enc.Encode(r)
	fmt.Fprintf(stderr, "完成：deck=%q legal_formats=%d/%d unresolved=%d\n",
		r.Deck, r.Summary.LegalFormats, len(r.Formats), r.Summary.Unresolved)
}

func restrictionColor(r domain.Restriction) *color.Color {
	switch r {
	case domain.Legal:
		return color.New(color.FgGreen, color.Bold)
	case domain.Restricted:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func renderReport(w io.Writer, r report.Report) {
	header := color.New(color.Bold)
	header.Fprintf(w, "%s", r.Deck)
	fmt.Fprintf(w, "（%d 种卡牌，共 %d 张）\n", r.Summary.Cards, r.Summary.Copies)
	if r.Oversized {
		color.New(color.FgRed).Fprintf(w, "存在超过 %d 张的单卡，所有赛制均不合法\n", domain.MaxCopies)
	}

	dim := color.New(color.Faint)
	for _, fr := range r.Formats {
		fmt.Fprintf(w, "  %-10s ", fr.Format)
		restrictionColor(fr.Restriction).Fprintf(w, "%s", fr.Restriction)
		fmt.Fprintln(w)
		for _, cr := range fr.Cards {
			for _, reason := range cr.Reasons {
				dim.Fprintf(w, "      - %s", reason)
				fmt.Fprintln(w)
			}
		}
	}
}

func renderUnresolved(w io.Writer, r report.Report) {
	for _, u := range r.Unresolved {
		fmt.Fprintf(w, "%s %s: %s\n", u.Card, u.ErrorCode, u.ErrorMsg)
	}
}

func renderCard(w io.Writer, c *domain.Card) {
	color.New(color.Bold).Fprintf(w, "%s", c.String())
	fmt.Fprintln(w)
	for _, f := range domain.Formats() {
		r, ok := c.Legality[f]
		if !ok {
			r = domain.NotPresent
		}
		fmt.Fprintf(w, "  %-10s ", f)
		restrictionColor(r).Fprintf(w, "%s", r)
		fmt.Fprintln(w)
	}
}
