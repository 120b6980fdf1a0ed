package trad

import (
	"sort"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pkg/utils"
)

// ByAgeCohort 按同龄人的口碑返回 title 排行。
//
// 算法流程：
//  1. 圈出同龄人：年龄已知且 age-3 < 用户年龄 < age+3（开区间）
//  2. 把评分限制在同龄人产生的行上，就地重算局部统计表
//  3. 打分 = 均分 × 评分数，降序取前 topN
//
// 均分单独用会偏向"一个人打了满分"的书，评分数单独用又丢掉口碑，
// 相乘在质量和数量之间取平衡。
//
// 同龄人为空或没有产生任何评分时返回空列表（不报错），是否继续兜底由调用方决定。
func ByAgeCohort(age int, users []core.User, bookRatings []core.BookRating, topN int, exclude map[string]bool) []*core.Item {
	if topN <= 0 {
		topN = DefaultTopN
	}

	cohort := make(map[int64]bool)
	for _, u := range users {
		if u.AgeKnown() && u.Age > age-AgeCohortGap && u.Age < age+AgeCohortGap {
			cohort[u.ID] = true
		}
	}
	if len(cohort) == 0 {
		return nil
	}

	local := make([]core.BookRating, 0)
	for _, r := range bookRatings {
		if cohort[r.UserID] {
			local = append(local, r)
		}
	}
	if len(local) == 0 {
		return nil
	}

	s := Summarize(local)
	titles := s.Titles()
	score := func(t string) float64 {
		st, _ := s.Get(t)
		return st.Mean * float64(st.Count)
	}

	order := make([]int, len(titles))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return score(titles[order[a]]) > score(titles[order[b]])
	})

	out := make([]*core.Item, 0, topN)
	for _, i := range order {
		t := titles[i]
		if exclude[t] {
			continue
		}
		it := core.NewItem(t)
		it.Score = score(t)
		it.PutLabel("recall_source", utils.Label{Value: "age_cohort", Source: "recall"})
		out = append(out, it)
		if len(out) >= topN {
			break
		}
	}
	return out
}
