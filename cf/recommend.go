package cf

import (
	"fmt"
	"sort"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pkg/utils"
)

// RecommendByBook 按书找书（i2i）：查 title 所在行，按相似度降序返回其余 title。
//
// 行为约定：
//   - title 必须与模型索引精确匹配，查不到返回 NOT_FOUND（模糊匹配只属于回退策略）
//   - 输入 title 自身永不出现在结果里
//   - 同分按行顺序先到先得，结果确定
//   - exclude 中的 title（调用方已读等）被剔除
func (m *Model) RecommendByBook(title string, topN int, exclude map[string]bool) ([]*core.Item, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	i, ok := m.index[title]
	if !ok {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeNotFound,
			fmt.Sprintf("cf: title %q not in model index", title))
	}

	order := rankDesc(m.Sim[i])

	out := make([]*core.Item, 0, topN)
	for _, j := range order {
		if j == i {
			continue
		}
		t := m.Titles[j]
		if exclude[t] {
			continue
		}
		it := core.NewItem(t)
		it.Score = m.Sim[i][j]
		it.PutLabel("recall_source", utils.Label{Value: "i2i", Source: "recall"})
		it.PutLabel("cf_metric", utils.Label{Value: m.Method, Source: "recall"})
		out = append(out, it)
		if len(out) >= topN {
			break
		}
	}
	return out, nil
}

// RecommendByUser 按用户找书（u2i）：用用户自己的评分历史当种子聚合相似度信号。
//
// 算法流程：
//  1. 用户评分过的 title 全量进入排除集（不推已读），与调用方传入的
//     exclude（已下架、已拉黑等）合并；排除发生在截断之前，只要还有
//     合法候选就凑满 topN
//  2. 种子 = 评分历史中出现在模型索引里的行，按用户打分降序（同分保持原序），
//     最多取 MaxSeedBooks 个
//  3. 每个种子贡献自己的相似度行 × 用户对该种子的打分（喜欢的书话语权更大）
//  4. 候选聚合取各种子贡献的最大值而非求和：强烈接近任意一本喜欢的书即可胜出，
//     不要求对所有种子的广泛相似
//  5. 降序取前 topN，同分按行顺序
//
// 种子为空（用户没评过任何热门书）返回 NO_DATA，这是协同过滤对该用户
// 不适用的明确信号，调用方应切换回退策略。
func (m *Model) RecommendByUser(userRatings []core.BookRating, topN int, exclude map[string]bool) ([]*core.Item, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	// 已读排除集：按 title，任何版本都算读过
	read := make(map[string]bool, len(userRatings)+len(exclude))
	for _, r := range userRatings {
		read[r.Title] = true
	}
	for t := range exclude {
		read[t] = true
	}

	// 种子：在模型索引内的评分行，按打分降序稳定排序
	type seed struct {
		row   int
		score float64
	}
	seeds := make([]seed, 0, len(userRatings))
	for _, r := range userRatings {
		if i, ok := m.index[r.Title]; ok {
			seeds = append(seeds, seed{row: i, score: float64(r.Score)})
		}
	}
	if len(seeds) == 0 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeNoData,
			"cf: user has no rating for any title in the model")
	}
	sort.SliceStable(seeds, func(i, j int) bool { return seeds[i].score > seeds[j].score })
	if len(seeds) > MaxSeedBooks {
		seeds = seeds[:MaxSeedBooks]
	}

	// 聚合：候选分 = max(种子相似度 × 种子打分)
	best := make([]float64, m.Len())
	for si, sd := range seeds {
		row := m.Sim[sd.row]
		for j := range row {
			w := row[j] * sd.score
			if si == 0 || w > best[j] {
				best[j] = w
			}
		}
	}

	order := rankDesc(best)
	out := make([]*core.Item, 0, topN)
	for _, j := range order {
		t := m.Titles[j]
		if read[t] {
			continue
		}
		it := core.NewItem(t)
		it.Score = best[j]
		it.PutLabel("recall_source", utils.Label{Value: "u2i", Source: "recall"})
		it.PutLabel("cf_metric", utils.Label{Value: m.Method, Source: "recall"})
		out = append(out, it)
		if len(out) >= topN {
			break
		}
	}
	return out, nil
}

// rankDesc 返回按分数降序的下标序列；同分保持下标升序（稳定、确定）。
func rankDesc(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	return order
}
