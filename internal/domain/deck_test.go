package domain

import "testing"

func TestDeck_Add_ClampsAndMerges(t *testing.T) {
	d := NewDeck("burn")

	c := d.Add("Lightning Bolt", 7)
	if c == nil {
		t.Fatalf("期望返回卡牌")
	}
	if got := d.Count("Lightning Bolt"); got != MaxCopies {
		t.Fatalf("单次写入应截断为 %d，实际 %d", MaxCopies, got)
	}

	// 合并后的总数不再截断。
	d.Add("Lightning Bolt", 1)
	if got := d.Count("Lightning Bolt"); got != 5 {
		t.Fatalf("期望合并后为 5，实际 %d", got)
	}
	if len(d.Cards()) != 1 {
		t.Fatalf("同名卡应合并为一个条目，实际 %d", len(d.Cards()))
	}
	if d.MaxCount() != 5 || d.Size() != 5 {
		t.Fatalf("MaxCount/Size 不正确：%d/%d", d.MaxCount(), d.Size())
	}
}

func TestDeck_Add_IgnoresInvalid(t *testing.T) {
	d := NewDeck("x")
	if d.Add("Terror", 0) != nil || d.Add("  ", 2) != nil || d.Add("Terror", -1) != nil {
		t.Fatalf("非法输入应返回 nil")
	}
	if len(d.Cards()) != 0 {
		t.Fatalf("不应写入任何卡牌")
	}
	if d.Count("Terror") != -1 {
		t.Fatalf("不存在的卡牌应返回 -1")
	}
}

func TestDeck_AddWithID_UnionsIDs(t *testing.T) {
	d := NewDeck("x")
	d.AddWithID("Terror", 135199, 2)
	c := d.AddWithID("Terror", 4711, 1)
	d.AddWithID("Terror", -3, 1)

	ids := c.SortedIDs()
	if len(ids) != 2 || ids[0] != 4711 || ids[1] != 135199 {
		t.Fatalf("标识符应合并且忽略非正数，实际 %v", ids)
	}
	if d.Count("Terror") != 4 {
		t.Fatalf("期望 4 张，实际 %d", d.Count("Terror"))
	}
	if id, ok := c.PrimaryID(); !ok || id != 4711 {
		t.Fatalf("PrimaryID 应为最小标识符，实际 (%d,%v)", id, ok)
	}
}

func TestCard_Equal_IncludesLegality(t *testing.T) {
	a := NewCard("Terror", 135199)
	b := NewCard("Terror", 135199)
	if !a.Equal(b) {
		t.Fatalf("同名同标识符且均未解析的卡牌应相等")
	}

	b.SetFormat(Legacy, Legal)
	if a.Equal(b) {
		t.Fatalf("已解析与未解析的卡牌不应相等")
	}

	a.SetFormat(Legacy, Legal)
	if !a.Equal(b) || a.Key() != b.Key() {
		t.Fatalf("解析结果一致后应相等")
	}

	c := NewCard("Terror", 1)
	c.SetFormat(Legacy, Legal)
	if a.Equal(c) {
		t.Fatalf("标识符不同不应相等")
	}
}

func TestCard_String(t *testing.T) {
	c := NewCard("Terror", 2, 1)
	if got := c.String(); got != "MTG Card - Terror, Multiverse Ids: 1, 2" {
		t.Fatalf("String 不符合预期：%q", got)
	}
}

func TestVerdict_Legal(t *testing.T) {
	v := Verdict{Extended: Legal, Legacy: Legal, Standard: Legal}
	if v.Legal() {
		t.Fatalf("缺少 VINTAGE 时不应视为合法")
	}
	v[Vintage] = Legal
	if !v.Legal() {
		t.Fatalf("全部 LEGAL 应视为合法")
	}
	if AllIllegal().Legal() {
		t.Fatalf("AllIllegal 不应合法")
	}
}

func TestExplanation_AddCollapsesDuplicates(t *testing.T) {
	e := Explanation{}
	e.Add(Legacy, "Windfall", "Windfall is Banned in LEGACY.")
	e.Add(Legacy, "Windfall", "Windfall is Banned in LEGACY.")
	if n := len(e.Reasons(Legacy, "Windfall")); n != 1 {
		t.Fatalf("重复原因应去重，实际 %d", n)
	}
	if e.Reasons(Vintage, "Windfall") != nil {
		t.Fatalf("未记录的赛制应返回 nil")
	}
}
