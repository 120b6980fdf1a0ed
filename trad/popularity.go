package trad

import (
	"sort"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pkg/utils"
)

// ByPopularity 按评分数量降序返回最热门的 title。
// 热度只看参与度（评分条数），与评分高低无关：给新用户和无数据场景兜底，
// "大家都在读的书"比"少数人打满分的书"更稳妥。
// 同分按统计表顺序，结果确定。
func ByPopularity(s *Summary, topN int, exclude map[string]bool) []*core.Item {
	if topN <= 0 {
		topN = DefaultTopN
	}

	titles := s.Titles()
	order := make([]int, len(titles))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, _ := s.Get(titles[order[a]])
		sb, _ := s.Get(titles[order[b]])
		return sa.Count > sb.Count
	})

	out := make([]*core.Item, 0, topN)
	for _, i := range order {
		t := titles[i]
		if exclude[t] {
			continue
		}
		st, _ := s.Get(t)
		it := core.NewItem(t)
		it.Score = float64(st.Count)
		it.PutLabel("recall_source", utils.Label{Value: "pop", Source: "recall"})
		out = append(out, it)
		if len(out) >= topN {
			break
		}
	}
	return out
}
