package trad

import (
	"sort"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pkg/utils"
)

// ByTitle 按标题文本相似度返回 title 排行，协同过滤查不到这本书时兜底。
//
// 候选限制在评分数 > MinTitleMatchRatings 的 title 上（冷门书的标题撞上了
// 也不值得推）。打分用 token set ratio：分词后按集合求重叠度，对词序和
// 重复词不敏感，量纲大致 [0,100]。降序取前 topN，同分按统计表顺序。
func ByTitle(query string, bookRatings []core.BookRating, topN int, exclude map[string]bool) []*core.Item {
	if topN <= 0 {
		topN = DefaultTopN
	}

	s := Summarize(bookRatings)
	candidates := make([]string, 0, s.Len())
	for _, t := range s.Titles() {
		st, _ := s.Get(t)
		if st.Count > MinTitleMatchRatings {
			candidates = append(candidates, t)
		}
	}

	scores := make([]float64, len(candidates))
	for i, t := range candidates {
		scores[i] = float64(fuzzy.TokenSetRatio(query, t))
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	out := make([]*core.Item, 0, topN)
	for _, i := range order {
		t := candidates[i]
		if exclude[t] {
			continue
		}
		it := core.NewItem(t)
		it.Score = scores[i]
		it.PutLabel("recall_source", utils.Label{Value: "title_match", Source: "recall"})
		out = append(out, it)
		if len(out) >= topN {
			break
		}
	}
	return out
}
