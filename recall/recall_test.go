package recall

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nicholaswilven/book-recsys/cf"
	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/store"
	"github.com/nicholaswilven/book-recsys/trad"
)

// fakeProvider 是测试用的数据视图：模型和统计表一次构建，按需裁剪
type fakeProvider struct {
	model   *cf.Model
	summary *trad.Summary
	users   []core.User
	ratings []core.BookRating
	byUser  map[int64][]core.BookRating
}

func (p *fakeProvider) Model() (*cf.Model, bool) {
	if p.model == nil {
		return nil, false
	}
	return p.model, true
}
func (p *fakeProvider) Summary() *trad.Summary         { return p.summary }
func (p *fakeProvider) Users() []core.User             { return p.users }
func (p *fakeProvider) BookRatings() []core.BookRating { return p.ratings }

func (p *fakeProvider) UserRatings(id int64) []core.BookRating {
	return p.byUser[id]
}
func (p *fakeProvider) User(id int64) (core.User, bool) {
	for _, u := range p.users {
		if u.ID == id {
			return u, true
		}
	}
	return core.User{}, false
}

var _ Provider = (*fakeProvider)(nil)

func br(userID int64, title string, score int) core.BookRating {
	return core.BookRating{UserID: userID, Score: score, Book: core.Book{Title: title}}
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()

	famous := []string{"A Tale", "Brave World", "Cursed Child", "Dune Messiah", "Emma"}
	var rows []core.BookRating
	var users []core.User
	for u := int64(1); u <= 6; u++ {
		users = append(users, core.User{ID: u, Age: 24 + int(u%3)})
		for i, title := range famous {
			rows = append(rows, br(u, title, int(u)%5+i+1))
		}
		for k := 0; k < 7; k++ {
			rows = append(rows, br(u, fmt.Sprintf("obscure-%d-%d", u, k), 5))
		}
	}

	model, err := cf.Build(context.Background(), rows, cf.MethodCosine)
	if err != nil {
		t.Fatalf("cf.Build() error = %v", err)
	}

	byUser := make(map[int64][]core.BookRating)
	for _, r := range rows {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	return &fakeProvider{
		model:   model,
		summary: trad.Summarize(rows),
		users:   users,
		ratings: rows,
		byUser:  byUser,
	}
}

func TestItemCF_Recall(t *testing.T) {
	p := newFakeProvider(t)
	src := &ItemCF{Provider: p, TopN: 3}

	items, err := src.Recall(context.Background(), &core.RecommendContext{Title: "A Tale"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 3 {
		t.Errorf("got %d items, want 3", len(items))
	}

	// 模型查不到的 title 折叠成空结果，不报错
	items, err = src.Recall(context.Background(), &core.RecommendContext{Title: "No Such Book"})
	if err != nil || len(items) != 0 {
		t.Errorf("unknown title = (%v, %v), want empty without error", items, err)
	}

	// 没有模型同样召不回
	src.Provider = &fakeProvider{}
	items, err = src.Recall(context.Background(), &core.RecommendContext{Title: "A Tale"})
	if err != nil || len(items) != 0 {
		t.Errorf("no model = (%v, %v), want empty without error", items, err)
	}
}

func TestUserCF_Recall(t *testing.T) {
	p := newFakeProvider(t)
	src := &UserCF{Provider: p, TopN: 5}

	// 用户 1 评过全部热门书：候选都被已读集排除，空结果不是错误
	items, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	for _, it := range items {
		if got := it.Labels["recall_source"].Value; got != "u2i" {
			t.Errorf("recall_source = %q, want u2i", got)
		}
	}

	// 无评分用户召不回
	items, err = src.Recall(context.Background(), &core.RecommendContext{UserID: 999})
	if err != nil || len(items) != 0 {
		t.Errorf("unknown user = (%v, %v), want empty without error", items, err)
	}
}

func TestPopularity_FromStore(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	for member, score := range map[string]float64{"Dune": 100, "Emma": 50, "Carrie": 10} {
		if err := ms.ZAdd(ctx, "pop:titles", score, member); err != nil {
			t.Fatal(err)
		}
	}

	src := &Popularity{Store: ms, Key: "pop:titles", TopN: 2}
	items, err := src.Recall(ctx, nil)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 2 || items[0].Title != "Dune" || items[1].Title != "Emma" {
		t.Errorf("items = %+v, want [Dune Emma]", items)
	}
	if items[0].Score != 100 {
		t.Errorf("items[0].Score = %v, want 100", items[0].Score)
	}
}

func TestPopularity_FallbackToSummary(t *testing.T) {
	p := newFakeProvider(t)

	// 没配 Store：直接用内存统计表
	src := &Popularity{Provider: p, TopN: 3}
	items, err := src.Recall(context.Background(), nil)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	// 配了 Store 但榜单为空：同样退回统计表
	ms := store.NewMemoryStore()
	defer ms.Close()
	src = &Popularity{Provider: p, Store: ms, Key: "pop:empty", TopN: 3}
	items, err = src.Recall(context.Background(), nil)
	if err != nil || len(items) != 3 {
		t.Errorf("empty zset fallback = (%d items, %v), want 3 items", len(items), err)
	}
}

func TestAgeCohort_ResolveAge(t *testing.T) {
	p := newFakeProvider(t)

	tests := []struct {
		name string
		src  *AgeCohort
		rctx *core.RecommendContext
		want bool // 是否应产出候选
	}{
		{
			name: "static age wins",
			src:  &AgeCohort{Provider: p, Age: 25},
			rctx: nil,
			want: true,
		},
		{
			name: "age from params",
			src:  &AgeCohort{Provider: p},
			rctx: &core.RecommendContext{Params: map[string]any{"age": 25}},
			want: true,
		},
		{
			name: "age from user profile",
			src:  &AgeCohort{Provider: p},
			rctx: &core.RecommendContext{UserID: 1},
			want: true,
		},
		{
			name: "no age anywhere",
			src:  &AgeCohort{Provider: p},
			rctx: &core.RecommendContext{UserID: 999},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := tt.src.Recall(context.Background(), tt.rctx)
			if err != nil {
				t.Fatalf("Recall() error = %v", err)
			}
			if got := len(items) > 0; got != tt.want {
				t.Errorf("produced items = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTitleMatch_Recall(t *testing.T) {
	// 模糊匹配要求候选评分数 > 10，给两本书各 11 条评分
	var rows []core.BookRating
	for u := int64(1); u <= 11; u++ {
		rows = append(rows, br(u, "The Lord of the Rings", 9))
		rows = append(rows, br(u, "A Farewell to Arms", 7))
	}
	p := &fakeProvider{ratings: rows}

	src := &TitleMatch{Provider: p, TopN: 1}
	items, err := src.Recall(context.Background(), &core.RecommendContext{Title: "lord of the rings"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 1 || items[0].Title != "The Lord of the Rings" {
		t.Errorf("items = %+v, want [The Lord of the Rings]", items)
	}

	// 没有查询 title 召不回
	items, err = src.Recall(context.Background(), &core.RecommendContext{})
	if err != nil || len(items) != 0 {
		t.Errorf("empty title = (%v, %v), want empty without error", items, err)
	}
}

func TestRecall_CancelledContext(t *testing.T) {
	p := &fakeProvider{ratings: []core.BookRating{br(1, "The Lord of the Rings", 9)}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sources := []Source{
		&ItemCF{Provider: p, TopN: 5},
		&UserCF{Provider: p, TopN: 5},
		&AgeCohort{Provider: p, TopN: 5},
		&TitleMatch{Provider: p, TopN: 5},
	}
	for _, src := range sources {
		t.Run(src.Name(), func(t *testing.T) {
			items, err := src.Recall(ctx, &core.RecommendContext{UserID: 1, Title: "The Lord of the Rings"})
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Recall() error = %v, want context.Canceled", err)
			}
			if len(items) != 0 {
				t.Errorf("items = %+v, want none after cancellation", items)
			}
		})
	}
}
