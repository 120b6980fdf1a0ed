package recall

import (
	"context"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pipeline"
	"github.com/nicholaswilven/book-recsys/trad"
)

// TitleMatch 是标题模糊匹配召回源：按 token set 相似度找标题像的书。
// 协同过滤对入口 title 无能为力时的兜底，也可单独作为"搜书名"召回用。
type TitleMatch struct {
	Provider Provider

	// TopN 最终返回的候选数量，<=0 时取 trad.DefaultTopN
	TopN int
}

func (r *TitleMatch) Name() string        { return "recall.title" }
func (r *TitleMatch) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *TitleMatch) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *TitleMatch) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Provider == nil || rctx == nil || rctx.Title == "" {
		return nil, nil
	}

	return trad.ByTitle(rctx.Title, r.Provider.BookRatings(), r.TopN, nil), nil
}
