package recall

import (
	"context"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pipeline"
)

// UserCF 是按用户找书的协同过滤召回源（u2i）。
//
// 用户没评过任何模型内的书（NO_DATA）、或当前没有可用模型时返回空结果，
// 让 fanout 里的其他源兜底。需要显式拿到 NO_DATA 信号的调用方
// 直接走 cf.Model.RecommendByUser。
type UserCF struct {
	Provider Provider

	// TopN 最终返回的候选数量，<=0 时取 cf.DefaultTopN
	TopN int
}

func (r *UserCF) Name() string        { return "recall.u2i" }
func (r *UserCF) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *UserCF) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *UserCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Provider == nil || rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}

	model, ok := r.Provider.Model()
	if !ok {
		return nil, nil
	}

	ratings := r.Provider.UserRatings(rctx.UserID)
	if len(ratings) == 0 {
		return nil, nil
	}

	items, err := model.RecommendByUser(ratings, r.TopN, nil)
	if err != nil {
		if core.IsRecoverable(err) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}
