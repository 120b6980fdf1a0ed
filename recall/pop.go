package recall

import (
	"context"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pipeline"
	"github.com/nicholaswilven/book-recsys/pkg/utils"
	"github.com/nicholaswilven/book-recsys/trad"
)

// Popularity 是热门召回源，支持从 Store 读取预计算的热门 title 榜单。
// - 如果 Store 实现了 KeyValueStore，优先使用 ZRange（有序集合，按热度排序）
// - 否则（或榜单为空）退回内存统计表，按评分数排行
// Popularity 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Popularity struct {
	Provider Provider

	// Store 是可选的预计算榜单来源，例如离线任务每天写一次的 Redis 有序集合
	Store core.Store

	// Key 是榜单在 Store 中的 key，例如 "pop:titles"
	Key string

	// TopN 最终返回的候选数量，<=0 时取 trad.DefaultTopN
	TopN int
}

func (r *Popularity) Name() string        { return "recall.pop" }
func (r *Popularity) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Popularity) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Popularity) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	topN := r.TopN
	if topN <= 0 {
		topN = trad.DefaultTopN
	}

	// 优先从 Store 的有序集合读取预计算榜单
	if r.Store != nil && r.Key != "" {
		if kvStore, ok := r.Store.(core.KeyValueStore); ok {
			members, err := kvStore.ZRange(ctx, r.Key, 0, int64(topN)-1)
			if err == nil && len(members) > 0 {
				out := make([]*core.Item, 0, len(members))
				for _, title := range members {
					it := core.NewItem(title)
					if score, err := kvStore.ZScore(ctx, r.Key, title); err == nil {
						it.Score = score
					}
					it.PutLabel("recall_source", utils.Label{Value: "pop", Source: "recall"})
					out = append(out, it)
				}
				return out, nil
			}
		}
	}

	// 退回内存统计表
	if r.Provider == nil {
		return nil, nil
	}
	return trad.ByPopularity(r.Provider.Summary(), topN, nil), nil
}
