package cf

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/nicholaswilven/book-recsys/core"
)

func br(userID int64, title string, score int) core.BookRating {
	return core.BookRating{
		UserID: userID,
		Score:  score,
		Book:   core.Book{Title: title},
	}
}

// fixtureRatings 构造 6 个活跃用户 × 5 本热门书的评分集。
// 每个用户另有 7 本只有自己评过的冷门书，凑够活跃门槛（>10 条）
// 又不会让冷门书进入矩阵（<5 条）。
func fixtureRatings() []core.BookRating {
	famous := []string{"A Tale", "Brave World", "Cursed Child", "Dune Messiah", "Emma"}

	var rows []core.BookRating
	for u := int64(1); u <= 6; u++ {
		for i, t := range famous {
			rows = append(rows, br(u, t, int(u)%5+i+1))
		}
		for k := 0; k < 7; k++ {
			rows = append(rows, br(u, fmt.Sprintf("obscure-%d-%d", u, k), 5))
		}
	}
	return rows
}

func TestBuild_Thresholds(t *testing.T) {
	rows := fixtureRatings()

	// 低活跃用户（只有 5 条评分）不参与建模，也不给热门书贡献计数
	for _, title := range []string{"A Tale", "Brave World", "Cursed Child", "Dune Messiah", "Emma"} {
		rows = append(rows, br(100, title, 9))
	}

	m, err := Build(context.Background(), rows, MethodCosine)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantTitles := []string{"A Tale", "Brave World", "Cursed Child", "Dune Messiah", "Emma"}
	if !reflect.DeepEqual(m.Titles, wantTitles) {
		t.Errorf("Titles = %v, want %v", m.Titles, wantTitles)
	}

	wantUsers := []int64{1, 2, 3, 4, 5, 6}
	if !reflect.DeepEqual(m.UserIDs, wantUsers) {
		t.Errorf("UserIDs = %v, want %v", m.UserIDs, wantUsers)
	}

	if m.Len() != len(wantTitles) {
		t.Errorf("Len() = %d, want %d", m.Len(), len(wantTitles))
	}
	for i, title := range wantTitles {
		got, ok := m.Index(title)
		if !ok || got != i {
			t.Errorf("Index(%q) = (%d, %v), want (%d, true)", title, got, ok, i)
		}
	}
}

func TestBuild_DuplicateCellsAveraged(t *testing.T) {
	rows := fixtureRatings()

	// 同一 (title, user) 的多版本评分取均值：user 1 对 A Tale 原有 2 分，
	// 再补 4 分和 9 分后该单元格应为 (2+4+9)/3 = 5
	rows = append(rows, br(1, "A Tale", 4), br(1, "A Tale", 9))

	m, err := Build(context.Background(), rows, MethodCosine)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	i, _ := m.Index("A Tale")
	if got := m.Ratings[i][0]; got != 5 {
		t.Errorf("Ratings[A Tale][user 1] = %v, want 5", got)
	}
}

func TestBuild_MethodValidation(t *testing.T) {
	rows := fixtureRatings()

	m, err := Build(context.Background(), rows, "")
	if err != nil {
		t.Fatalf("Build(\"\") error = %v", err)
	}
	if m.Method != MethodPearson {
		t.Errorf("empty method resolved to %q, want %q", m.Method, MethodPearson)
	}

	_, err = Build(context.Background(), rows, "jaccard")
	if !core.IsInvalidConfig(err) {
		t.Errorf("Build(jaccard) error = %v, want INVALID_CONFIG", err)
	}
}

func TestBuild_NotEnoughData(t *testing.T) {
	tests := []struct {
		name string
		rows []core.BookRating
	}{
		{name: "empty input", rows: nil},
		{
			name: "no knowledgeable user",
			rows: []core.BookRating{
				br(1, "A Tale", 5), br(1, "Brave World", 5),
				br(2, "A Tale", 5), br(2, "Brave World", 5),
			},
		},
		{
			name: "single famous title",
			rows: func() []core.BookRating {
				var rows []core.BookRating
				for u := int64(1); u <= 6; u++ {
					rows = append(rows, br(u, "A Tale", 5))
					for k := 0; k < 11; k++ {
						rows = append(rows, br(u, fmt.Sprintf("obscure-%d-%d", u, k), 5))
					}
				}
				return rows
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(context.Background(), tt.rows, MethodCosine)
			if !core.IsModelUnavailable(err) {
				t.Errorf("Build() error = %v, want MODEL_UNAVAILABLE", err)
			}
		})
	}
}

func TestSimilarity_CosineProperties(t *testing.T) {
	m, err := Build(context.Background(), fixtureRatings(), MethodCosine)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	n := m.Len()
	for i := 0; i < n; i++ {
		if m.Sim[i][i] != 1 {
			t.Errorf("Sim[%d][%d] = %v, want exactly 1", i, i, m.Sim[i][i])
		}
		for j := 0; j < n; j++ {
			if m.Sim[i][j] != m.Sim[j][i] {
				t.Errorf("Sim[%d][%d] = %v != Sim[%d][%d] = %v", i, j, m.Sim[i][j], j, i, m.Sim[j][i])
			}
			if m.Sim[i][j] < -1-1e-9 || m.Sim[i][j] > 1+1e-9 {
				t.Errorf("Sim[%d][%d] = %v out of [-1, 1]", i, j, m.Sim[i][j])
			}
		}
	}
}

func TestSimilarity_PearsonZeroVariance(t *testing.T) {
	rows := fixtureRatings()

	// 所有人都打同一分的书：中心化后零向量，相关系数无定义，显式取 0
	for u := int64(1); u <= 6; u++ {
		rows = append(rows, br(u, "Flatland", 5))
	}

	m, err := Build(context.Background(), rows, MethodPearson)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	i, ok := m.Index("Flatland")
	if !ok {
		t.Fatal("Flatland not in model index")
	}
	for j := 0; j < m.Len(); j++ {
		if m.Sim[i][j] != 0 {
			t.Errorf("Sim[Flatland][%d] = %v, want 0", j, m.Sim[i][j])
		}
		if m.Sim[j][i] != 0 {
			t.Errorf("Sim[%d][Flatland] = %v, want 0", j, m.Sim[j][i])
		}
	}

	// 有方差的行对角线仍为 1
	j, _ := m.Index("A Tale")
	if m.Sim[j][j] != 1 {
		t.Errorf("Sim[A Tale][A Tale] = %v, want 1", m.Sim[j][j])
	}
}

func TestBuild_Deterministic(t *testing.T) {
	for _, method := range []string{MethodCosine, MethodPearson} {
		t.Run(method, func(t *testing.T) {
			a, err := Build(context.Background(), fixtureRatings(), method)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			b, err := Build(context.Background(), fixtureRatings(), method)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			if !reflect.DeepEqual(a.Titles, b.Titles) || !reflect.DeepEqual(a.UserIDs, b.UserIDs) {
				t.Fatal("rebuild changed row/column order")
			}
			// 重建必须逐位一致，不允许浮点近似
			for i := range a.Sim {
				for j := range a.Sim[i] {
					if math.Float64bits(a.Sim[i][j]) != math.Float64bits(b.Sim[i][j]) {
						t.Fatalf("Sim[%d][%d] differs between rebuilds: %v vs %v", i, j, a.Sim[i][j], b.Sim[i][j])
					}
				}
			}
		})
	}
}
