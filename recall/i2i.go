package recall

import (
	"context"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pipeline"
)

// ItemCF 是按书找书的协同过滤召回源（i2i）。
//
// 作为召回源的行为约定：入口 title 不在模型索引、或当前没有可用模型时，
// 返回空结果而不是错误——在多路 fanout 里一路召不回不应拖垮整条链路。
// 需要把 NOT_FOUND 当显式信号消费的调用方（引擎的回退链）直接走
// cf.Model.RecommendByBook。
type ItemCF struct {
	Provider Provider

	// TopN 最终返回的候选数量，<=0 时取 cf.DefaultTopN
	TopN int
}

func (r *ItemCF) Name() string        { return "recall.i2i" }
func (r *ItemCF) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *ItemCF) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *ItemCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Provider == nil || rctx == nil || rctx.Title == "" {
		return nil, nil
	}

	model, ok := r.Provider.Model()
	if !ok {
		return nil, nil
	}

	items, err := model.RecommendByBook(rctx.Title, r.TopN, nil)
	if err != nil {
		if core.IsRecoverable(err) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}
