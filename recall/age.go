package recall

import (
	"context"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pipeline"
	"github.com/nicholaswilven/book-recsys/pkg/conv"
	"github.com/nicholaswilven/book-recsys/trad"
)

// AgeCohort 是同龄人召回源。
//
// 目标年龄的解析优先级：
//  1. 节点自身的 Age 字段（静态配置）
//  2. rctx.Params["age"]
//  3. rctx.UserID 对应用户档案的年龄
//
// 年龄未知时返回空结果——年龄是这条策略的输入前提，不做猜测。
type AgeCohort struct {
	Provider Provider

	// Age 静态指定目标年龄，0 表示从请求解析
	Age int

	// TopN 最终返回的候选数量，<=0 时取 trad.DefaultTopN
	TopN int
}

func (r *AgeCohort) Name() string        { return "recall.age" }
func (r *AgeCohort) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *AgeCohort) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *AgeCohort) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Provider == nil {
		return nil, nil
	}

	age := r.resolveAge(rctx)
	if age <= 0 {
		return nil, nil
	}

	return trad.ByAgeCohort(age, r.Provider.Users(), r.Provider.BookRatings(), r.TopN, nil), nil
}

func (r *AgeCohort) resolveAge(rctx *core.RecommendContext) int {
	if r.Age > 0 {
		return r.Age
	}
	if rctx == nil {
		return 0
	}
	if a, ok := conv.ToInt(rctx.Params["age"]); ok && a > 0 {
		return a
	}
	if rctx.UserID != 0 {
		if u, ok := r.Provider.User(rctx.UserID); ok && u.AgeKnown() {
			return u.Age
		}
	}
	return 0
}
