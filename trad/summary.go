// Package trad 实现非协同的传统检索策略（traditional filtering）：
// 热度榜、同龄人榜、标题模糊匹配。三条策略互相独立，都是纯函数，
// 对结构上合法的输入永不失败——候选池为空就返回空列表，由编排层决定后续动作。
// 协同过滤因数据不足失效时，编排层回退到这里。
package trad

import (
	"sort"

	"github.com/nicholaswilven/book-recsys/core"
)

const (
	// DefaultTopN 各策略默认返回条数。
	DefaultTopN = 10

	// AgeCohortGap 同龄人口径：|目标年龄 - 用户年龄| < AgeCohortGap（开区间）。
	AgeCohortGap = 3

	// MinTitleMatchRatings 标题模糊匹配的候选门槛：评分数严格大于此值的 title
	// 才参与匹配，避免在噪声上做推荐。
	MinTitleMatchRatings = 10
)

// Summary 是按 title 聚合的评分统计表。
// title 顺序在构建时排序固定，排行类策略同分时按此顺序先到先得。
type Summary struct {
	titles []string
	stats  map[string]core.RatingSummary
}

// Summarize 把 book_ratings join 归并为每个 title 的 {均分, 评分数}。
// 没有评分的 title 不出现（是缺席，不是 0）。相同输入产出相同统计，
// 与行顺序无关；空输入产出空表。
func Summarize(bookRatings []core.BookRating) *Summary {
	type acc struct {
		sum   float64
		count int
	}
	accs := make(map[string]*acc)
	for _, r := range bookRatings {
		a, ok := accs[r.Title]
		if !ok {
			a = &acc{}
			accs[r.Title] = a
		}
		a.sum += float64(r.Score)
		a.count++
	}

	titles := make([]string, 0, len(accs))
	stats := make(map[string]core.RatingSummary, len(accs))
	for t, a := range accs {
		titles = append(titles, t)
		stats[t] = core.RatingSummary{
			Mean:  a.sum / float64(a.count),
			Count: a.count,
		}
	}
	sort.Strings(titles)

	return &Summary{titles: titles, stats: stats}
}

// Titles 返回统计表的 title 顺序（排序后固定）。
func (s *Summary) Titles() []string {
	return s.titles
}

// Get 返回 title 的评分统计。
func (s *Summary) Get(title string) (core.RatingSummary, bool) {
	st, ok := s.stats[title]
	return st, ok
}

// Len 返回统计表收录的 title 数量。
func (s *Summary) Len() int {
	return len(s.titles)
}
