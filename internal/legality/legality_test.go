package legality

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/John-Robertt/deckcheck/internal/catalog"
	"github.com/John-Robertt/deckcheck/internal/domain"
)

type stubSource struct {
	ids      map[string]int
	legality map[int]domain.Legality
	fetchErr map[int]error

	lookupCalls int
	fetchCalls  int
}

func (s *stubSource) LookupID(ctx context.Context, name string) (int, error) {
	s.lookupCalls++
	id, ok := s.ids[name]
	if !ok {
		return 0, &catalog.NotFoundError{Name: name}
	}
	return id, nil
}

func (s *stubSource) Legality(ctx context.Context, id int) (domain.Legality, error) {
	s.fetchCalls++
	if err, ok := s.fetchErr[id]; ok {
		return nil, err
	}
	return s.legality[id].Clone(), nil
}

func allFormats(r domain.Restriction) domain.Legality {
	l := domain.Legality{}
	for _, f := range domain.Formats() {
		l[f] = r
	}
	return l
}

func newStub() *stubSource {
	return &stubSource{
		ids: map[string]int{
			"Lightning Bolt": 1,
			"Terror":         135199,
			"Windfall":       2076,
			"Black Lotus":    3,
			"Time Walk":      4,
		},
		legality: map[int]domain.Legality{
			1: allFormats(domain.Legal),
			135199: {
				domain.Extended: domain.Legal,
				domain.Legacy:   domain.Legal,
				domain.Vintage:  domain.Legal,
			},
			2076: {
				domain.Vintage: domain.Restricted,
				domain.Legacy:  domain.Banned,
			},
			3: {
				domain.Vintage: domain.Restricted,
				domain.Legacy:  domain.Banned,
			},
			4: {
				domain.Vintage: domain.Restricted,
				domain.Legacy:  domain.Banned,
			},
		},
	}
}

func TestCheckDeck_AllLegalFourCopies(t *testing.T) {
	v := NewValidator(NewCache(newStub()))
	d := domain.NewDeck("burn")
	d.Add("Lightning Bolt", 4)

	got := v.CheckDeckLegality(context.Background(), d)
	want := domain.Verdict{
		domain.Extended: domain.Legal,
		domain.Legacy:   domain.Legal,
		domain.Standard: domain.Legal,
		domain.Vintage:  domain.Legal,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("结论不符合预期 (-want +got):\n%s", diff)
	}
}

func TestCheckDeck_BannedInLegacy(t *testing.T) {
	v := NewValidator(NewCache(newStub()))
	d := domain.NewDeck("x")
	d.Add("Windfall", 1)

	got := v.CheckDeckLegality(context.Background(), d)
	if got[domain.Legacy] != domain.Banned {
		t.Fatalf("期望 LEGACY=BANNED，实际 %v", got)
	}
	// 单张 RESTRICTED 卡牌：VINTAGE 降为 LEGAL。
	if got[domain.Vintage] != domain.Legal {
		t.Fatalf("期望 VINTAGE=LEGAL，实际 %v", got)
	}
	if got[domain.Standard] != domain.NotPresent || got[domain.Extended] != domain.NotPresent {
		t.Fatalf("未提及的赛制应为 NOT_PRESENT，实际 %v", got)
	}

	e := v.Explain(context.Background(), d)
	if !e.Reasons(domain.Legacy, "Windfall").Has("Windfall is Banned in LEGACY.") {
		t.Fatalf("解释中缺少 Banned 原因：%v", e[domain.Legacy])
	}
}

func TestCheckDeck_RestrictedDowngrade(t *testing.T) {
	d1 := domain.NewDeck("one")
	d1.Add("Black Lotus", 1)
	got := NewValidator(NewCache(newStub())).CheckDeckLegality(context.Background(), d1)
	if got[domain.Vintage] != domain.Legal {
		t.Fatalf("1 张 RESTRICTED 应降为 LEGAL，实际 %v", got[domain.Vintage])
	}

	d2 := domain.NewDeck("two")
	d2.Add("Black Lotus", 2)
	got = NewValidator(NewCache(newStub())).CheckDeckLegality(context.Background(), d2)
	if got[domain.Vintage] != domain.Restricted {
		t.Fatalf("2 张 RESTRICTED 应保持 RESTRICTED，实际 %v", got[domain.Vintage])
	}
}

func TestCheckDeck_RestrictedDowngradeUsesMaxCount(t *testing.T) {
	d := domain.NewDeck("power")
	d.Add("Black Lotus", 1)
	d.Add("Time Walk", 2)

	got := NewValidator(NewCache(newStub())).CheckDeckLegality(context.Background(), d)
	if got[domain.Vintage] != domain.Restricted {
		t.Fatalf("任一 RESTRICTED 卡牌超过 1 张时不应降级，实际 %v", got[domain.Vintage])
	}
}

func TestCheckDeck_OversizedShortCircuits(t *testing.T) {
	src := newStub()
	v := NewValidator(NewCache(src))
	d := domain.NewDeck("big")
	d.Add("Lightning Bolt", 4)
	d.Add("Lightning Bolt", 1)
	d.Add("Terror", 1)

	res := v.CheckDeck(context.Background(), d)
	if !res.Oversized {
		t.Fatalf("期望 Oversized=true")
	}
	if diff := cmp.Diff(domain.AllIllegal(), res.Verdict); diff != "" {
		t.Fatalf("期望全部 ILLEGAL (-want +got):\n%s", diff)
	}
	if src.lookupCalls != 0 || src.fetchCalls != 0 {
		t.Fatalf("短路时不应访问网络：lookup=%d fetch=%d", src.lookupCalls, src.fetchCalls)
	}
}

func TestCheckDeck_IdempotentAndCached(t *testing.T) {
	src := newStub()
	v := NewValidator(NewCache(src))
	d := domain.NewDeck("x")
	d.Add("Terror", 3)
	d.Add("Windfall", 2)

	first := v.CheckDeckLegality(context.Background(), d)
	calls := src.fetchCalls
	second := v.CheckDeckLegality(context.Background(), d)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("重复检查结论不一致 (-first +second):\n%s", diff)
	}
	if src.fetchCalls != calls || calls != 2 {
		t.Fatalf("第二次检查应完全命中缓存：first=%d total=%d", calls, src.fetchCalls)
	}
	if st := v.cache.Stats(); st.Hits != 2 || st.Misses != 2 {
		t.Fatalf("缓存统计不正确：%+v", st)
	}
}

func TestCheckDeck_LookupFailureDegradesToNotPresent(t *testing.T) {
	src := newStub()
	src.fetchErr = map[int]error{135199: errors.New("connection reset")}
	v := NewValidator(NewCache(src))

	d := domain.NewDeck("x")
	d.Add("Terror", 1)
	d.Add("Lightning Bolt", 1)
	d.Add("Unknown Card", 1)

	res := v.CheckDeck(context.Background(), d)
	for _, f := range domain.Formats() {
		if res.Verdict[f] != domain.NotPresent {
			t.Fatalf("期望 %s=NOT_PRESENT，实际 %v", f, res.Verdict[f])
		}
	}
	if len(res.Unresolved) != 2 {
		t.Fatalf("期望 2 张未解析卡牌，实际 %+v", res.Unresolved)
	}
	if res.Unresolved[0].Card != "Terror" || Stage(res.Unresolved[0].Err) != StageFetch {
		t.Fatalf("第一条未解析不正确：%+v", res.Unresolved[0])
	}
	if res.Unresolved[1].Card != "Unknown Card" || Stage(res.Unresolved[1].Err) != StageLookup {
		t.Fatalf("第二条未解析不正确：%+v", res.Unresolved[1])
	}
	if !errors.Is(res.Unresolved[1].Err, catalog.ErrNotFound) {
		t.Fatalf("应能解包出 ErrNotFound：%v", res.Unresolved[1].Err)
	}
	if !d.Card("Lightning Bolt").Resolved() {
		t.Fatalf("其他卡牌应正常解析")
	}
	if d.Card("Terror").Resolved() {
		t.Fatalf("失败的卡牌合法性应保持为空")
	}
}

func TestCache_ParseFailureStage(t *testing.T) {
	src := newStub()
	src.fetchErr = map[int]error{1: &catalog.ParseError{Err: errors.New("bad")}}
	c := NewCache(src)

	_, err := c.Resolve(context.Background(), domain.NewCard("Lightning Bolt"))
	if Stage(err) != StageParse {
		t.Fatalf("期望 stage=parse，实际 %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("失败不应写入缓存")
	}
}

func TestCache_KnownIDSkipsLookup(t *testing.T) {
	src := newStub()
	c := NewCache(src)

	card := domain.NewCard("Terror", 135199)
	l, err := c.Resolve(context.Background(), card)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if src.lookupCalls != 0 || src.fetchCalls != 1 {
		t.Fatalf("已知标识符时不应查询：lookup=%d fetch=%d", src.lookupCalls, src.fetchCalls)
	}
	if l[domain.Legacy] != domain.Legal || card.Legality[domain.Legacy] != domain.Legal {
		t.Fatalf("合法性应写回卡牌：%v", card.Legality)
	}

	// 未解析的同名卡牌是不同的 key。
	if _, err := c.Resolve(context.Background(), domain.NewCard("Terror", 135199)); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if src.fetchCalls != 2 {
		t.Fatalf("未解析的新身份应再次获取，fetch=%d", src.fetchCalls)
	}
}

func TestMerge_OrderIndependent(t *testing.T) {
	cards := []domain.Legality{
		allFormats(domain.Legal),
		{domain.Vintage: domain.Restricted, domain.Legacy: domain.Banned},
		{domain.Extended: domain.Legal, domain.Legacy: domain.Legal, domain.Vintage: domain.Legal},
		{},
		{domain.Standard: domain.Illegal, domain.Vintage: domain.Banned, domain.Legacy: domain.Legal, domain.Extended: domain.Restricted},
	}

	mergeAll := func(order []int) domain.Verdict {
		v := domain.Verdict{}
		for _, i := range order {
			v = Merge(cards[i], v)
		}
		return v
	}

	want := mergeAll([]int{0, 1, 2, 3, 4})
	for _, order := range permutations([]int{0, 1, 2, 3, 4}) {
		if diff := cmp.Diff(want, mergeAll(order)); diff != "" {
			t.Fatalf("合并顺序 %v 结果不同 (-want +got):\n%s", order, diff)
		}
	}
	if want[domain.Standard] != domain.Illegal || want[domain.Legacy] != domain.NotPresent {
		t.Fatalf("合并结果应为逐赛制最大严格程度：%v", want)
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	in := domain.Verdict{domain.Legacy: domain.Legal}
	out := Merge(domain.Legality{domain.Legacy: domain.Banned}, in)
	if in[domain.Legacy] != domain.Legal || len(in) != 1 {
		t.Fatalf("Merge 不应修改入参：%v", in)
	}
	if out[domain.Legacy] != domain.Banned {
		t.Fatalf("期望 LEGACY=BANNED，实际 %v", out)
	}
}

func TestMerge_TiesAndLessRestrictiveKeepCurrent(t *testing.T) {
	v := domain.Verdict{domain.Vintage: domain.Banned}
	v = Merge(domain.Legality{domain.Vintage: domain.Restricted}, v)
	if v[domain.Vintage] != domain.Banned {
		t.Fatalf("更宽松的等级不应覆盖：%v", v[domain.Vintage])
	}
	v = Merge(domain.Legality{domain.Vintage: domain.Banned}, v)
	if v[domain.Vintage] != domain.Banned {
		t.Fatalf("相等的等级不应改变：%v", v[domain.Vintage])
	}
}

func permutations(xs []int) [][]int {
	if len(xs) <= 1 {
		return [][]int{append([]int(nil), xs...)}
	}
	var out [][]int
	for i := range xs {
		rest := make([]int, 0, len(xs)-1)
		rest = append(rest, xs[:i]...)
		rest = append(rest, xs[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]int{xs[i]}, p...))
		}
	}
	return out
}

func TestCheckAndExplain_FailedCardFetchedOnce(t *testing.T) {
	src := newStub()
	src.fetchErr = map[int]error{135199: errors.New("connection reset")}
	v := NewValidator(NewCache(src))

	d := domain.NewDeck("x")
	d.Add("Terror", 1)

	res := v.CheckAndExplain(context.Background(), d)
	if src.fetchCalls != 1 || src.lookupCalls != 1 {
		t.Fatalf("失败的卡牌在一次检查中只应请求一次：fetch=%d lookup=%d", src.fetchCalls, src.lookupCalls)
	}
	if len(res.Unresolved) != 1 || res.Unresolved[0].Card != "Terror" {
		t.Fatalf("unresolved 不正确：%+v", res.Unresolved)
	}

	// 结论与解释来自同一轮解析：NOT_PRESENT 的赛制必须有对应原因。
	for _, f := range domain.Formats() {
		if res.Verdict[f] != domain.NotPresent {
			t.Fatalf("期望 %s=NOT_PRESENT，实际 %v", f, res.Verdict[f])
		}
		want := "Terror is not in the legal sets for " + f.String() + "."
		if !res.Explanation.Reasons(f, "Terror").Has(want) {
			t.Fatalf("%s 缺少原因 %q：%v", f, want, res.Explanation[f])
		}
	}
}

func TestCheckAndExplain_OversizedReportsUnresolved(t *testing.T) {
	src := newStub()
	v := NewValidator(NewCache(src))

	d := domain.NewDeck("x")
	d.Add("Lightning Bolt", 4)
	d.Add("Lightning Bolt", 1)
	d.Add("Unknown Card", 1)

	res := v.CheckAndExplain(context.Background(), d)
	if !res.Oversized {
		t.Fatalf("期望 oversized=true")
	}
	if diff := cmp.Diff(domain.AllIllegal(), res.Verdict); diff != "" {
		t.Fatalf("结论应全部 ILLEGAL (-want +got):\n%s", diff)
	}
	if len(res.Unresolved) != 1 || res.Unresolved[0].Card != "Unknown Card" {
		t.Fatalf("解释路径上的查询失败也应出现在 unresolved：%+v", res.Unresolved)
	}
	reason := "There are more than four copies of Lightning Bolt present in the deck."
	if !res.Explanation.Reasons(domain.Legacy, "Lightning Bolt").Has(reason) {
		t.Fatalf("缺少张数原因：%v", res.Explanation[domain.Legacy])
	}
}

func TestCheckDeck_LeavesExplanationEmpty(t *testing.T) {
	v := NewValidator(NewCache(newStub()))
	d := domain.NewDeck("x")
	d.Add("Windfall", 2)

	if res := v.CheckDeck(context.Background(), d); res.Explanation != nil {
		t.Fatalf("CheckDeck 不应生成解释：%v", res.Explanation)
	}
}
