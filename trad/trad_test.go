package trad

import (
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

func TestSummarize(t *testing.T) {
	rows := []core.BookRating{
		br(1, "Dune", 8),
		br(2, "Dune", 6),
		br(1, "Emma", 10),
	}

	s := Summarize(rows)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	// title 顺序排序固定
	want := []string{"Dune", "Emma"}
	for i, title := range s.Titles() {
		if title != want[i] {
			t.Errorf("Titles()[%d] = %q, want %q", i, title, want[i])
		}
	}

	if st, _ := s.Get("Dune"); st.Mean != 7 || st.Count != 2 {
		t.Errorf("Get(Dune) = %+v, want {Mean: 7, Count: 2}", st)
	}
	if _, ok := s.Get("Nothing"); ok {
		t.Error("Get(Nothing) should report absence")
	}

	if Summarize(nil).Len() != 0 {
		t.Error("empty input should produce empty summary")
	}
}

func TestByPopularity(t *testing.T) {
	var rows []core.BookRating
	for u := int64(1); u <= 5; u++ {
		rows = append(rows, br(u, "Dune", int(u)))
	}
	for u := int64(1); u <= 3; u++ {
		rows = append(rows, br(u, "Emma", 10))
	}
	// 同为 3 条评分的两本书：同分按 title 排序先到先得
	for u := int64(1); u <= 3; u++ {
		rows = append(rows, br(u, "Carrie", 7))
	}
	rows = append(rows, br(1, "Zorba", 9))

	s := Summarize(rows)
	items := ByPopularity(s, 3, nil)

	want := []string{"Dune", "Carrie", "Emma"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, it := range items {
		if it.Title != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, it.Title, want[i])
		}
		if got := it.Labels["recall_source"].Value; got != "pop" {
			t.Errorf("recall_source = %q, want pop", got)
		}
	}
	// 热度分 = 评分条数
	if items[0].Score != 5 {
		t.Errorf("items[0].Score = %v, want 5", items[0].Score)
	}

	filtered := ByPopularity(s, 3, map[string]bool{"Dune": true})
	if len(filtered) != 3 || filtered[0].Title != "Carrie" {
		t.Errorf("exclusion not honored: %+v", filtered)
	}
}

func TestByAgeCohort(t *testing.T) {
	users := []core.User{
		{ID: 1, Age: 24},
		{ID: 2, Age: 26},
		{ID: 3, Age: 28}, // |28-25| >= 3，出圈
		{ID: 4, Age: 22}, // 同上
		{ID: 5, Age: 0},  // 年龄未知，永不入圈
	}
	rows := []core.BookRating{
		br(1, "Dune", 8),
		br(2, "Dune", 6),
		br(1, "Emma", 10),
		br(3, "Carrie", 10),
		br(4, "Carrie", 10),
		br(5, "Carrie", 10),
	}

	items := ByAgeCohort(25, users, rows, 10, nil)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	// Dune: 均分 7 × 2 条 = 14；Emma: 10 × 1 = 10
	if items[0].Title != "Dune" || items[0].Score != 14 {
		t.Errorf("items[0] = %q score %v, want Dune score 14", items[0].Title, items[0].Score)
	}
	if items[1].Title != "Emma" || items[1].Score != 10 {
		t.Errorf("items[1] = %q score %v, want Emma score 10", items[1].Title, items[1].Score)
	}
	// 圈外用户的书不入榜
	for _, it := range items {
		if it.Title == "Carrie" {
			t.Error("out-of-cohort ratings leaked into result")
		}
	}
}

func TestByAgeCohort_EmptyCohort(t *testing.T) {
	users := []core.User{{ID: 1, Age: 60}, {ID: 2, Age: 0}}
	rows := []core.BookRating{br(1, "Dune", 8)}

	if items := ByAgeCohort(25, users, rows, 10, nil); len(items) != 0 {
		t.Errorf("empty cohort should yield empty list, got %+v", items)
	}

	// 圈内有人但没产生评分，同样返回空
	users = append(users, core.User{ID: 3, Age: 25})
	if items := ByAgeCohort(25, users, rows, 10, nil); len(items) != 0 {
		t.Errorf("cohort without ratings should yield empty list, got %+v", items)
	}
}

func TestByTitle(t *testing.T) {
	var rows []core.BookRating
	// 两个过门槛的候选（各 11 条评分）和一个冷门撞名书（1 条）
	for u := int64(1); u <= 11; u++ {
		rows = append(rows, br(u, "The Lord of the Rings", 9))
		rows = append(rows, br(u, "A Farewell to Arms", 7))
	}
	rows = append(rows, br(1, "Lord of the Rings Illustrated", 10))

	items := ByTitle("lord of the rings", rows, 10, nil)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Title != "The Lord of the Rings" {
		t.Errorf("items[0] = %q, want The Lord of the Rings", items[0].Title)
	}
	if items[0].Score < items[1].Score {
		t.Errorf("scores not descending: %v then %v", items[0].Score, items[1].Score)
	}
	for _, it := range items {
		if it.Title == "Lord of the Rings Illustrated" {
			t.Error("title below rating threshold leaked into candidates")
		}
		if got := it.Labels["recall_source"].Value; got != "title_match" {
			t.Errorf("recall_source = %q, want title_match", got)
		}
	}
}
