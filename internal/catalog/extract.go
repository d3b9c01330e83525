package catalog

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/deckcheck/internal/domain"
)

const (
	headerFormat   = "Format"
	headerLegality = "Legality"
)

var errEmptyBody = errors.New("页面为空")

// ExtractLegality 从卡牌 printings 页面中定位合法性表格并解码为 format -> restriction。
//
// 约束：
// - 纯函数：相同输入 => 相同输出
// - 只认第一行同时含有 "Format" 与 "Legality" 表头的第一个 table；找不到不是错误，返回空结果
// - 表头按单元格全部文本去掉首尾空白后精确匹配（包括子元素中的文本，不折叠内部空白）
// - 同一赛制出现多行时保留第一次写入的值（严格程度合并属于 resolver，不在这里做）
// - 无法识别赛制或等级的行直接跳过
func ExtractLegality(body []byte) (domain.Legality, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &ParseError{Err: errEmptyBody}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	out := make(domain.Legality)

	table := findLegalityTable(doc)
	if table == nil {
		return out, nil
	}

	rows := ownRows(table)
	for _, row := range rows[1:] {
		f, r, ok := decodeRow(cellTexts(row))
		if !ok {
			continue
		}
		if _, seen := out[f]; seen {
			continue
		}
		out[f] = r
	}
	return out, nil
}

func findLegalityTable(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		rows := ownRows(t)
		if len(rows) == 0 {
			return true
		}
		if !isLegalityHeader(headerTexts(rows[0])) {
			return true
		}
		found = t
		return false
	})
	return found
}

// ownRows 返回直接属于 table 的行（thead/tbody/tfoot 透明），排除嵌套表格中的行。
func ownRows(table *goquery.Selection) []*goquery.Selection {
	var rows []*goquery.Selection
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Closest("table").IsSelection(table) {
			rows = append(rows, tr)
		}
	})
	return rows
}

func cellTexts(row *goquery.Selection) []string {
	var out []string
	row.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, normSpace(cell.Text()))
	})
	return out
}

func headerTexts(row *goquery.Selection) []string {
	var out []string
	row.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.TrimSpace(cell.Text()))
	})
	return out
}

func isLegalityHeader(cells []string) bool {
	var hasFormat, hasLegality bool
	for _, c := range cells {
		switch c {
		case headerFormat:
			hasFormat = true
		case headerLegality:
			hasLegality = true
		}
		if hasFormat && hasLegality {
			return true
		}
	}
	return false
}

// decodeRow 按单元格顺序取第一个可识别的赛制与第一个可识别的等级。
func decodeRow(cells []string) (domain.Format, domain.Restriction, bool) {
	var (
		f    domain.Format
		r    domain.Restriction
		hasF bool
		hasR bool
	)
	for _, c := range cells {
		if !hasF {
			if v, ok := domain.ParseFormat(c); ok {
				f, hasF = v, true
				continue
			}
		}
		if !hasR {
			if v, ok := domain.ParseRestriction(c); ok {
				r, hasR = v, true
			}
		}
	}
	return f, r, hasF && hasR
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
