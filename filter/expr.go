package filter

import (
	"context"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pkg/dsl"
)

// ExprFilter 是表达式过滤器：用 CEL 表达式描述"什么样的候选要被剔除"，
// 表达式可以直接写在 pipeline 的 YAML 配置里。
//
// 示例：
//   - `item.score < 40.0` → 剔除模糊匹配分过低的候选
//   - `label.recall_source == "pop"` → 剔除纯热度来源的候选
type ExprFilter struct {
	// Expr 是 CEL 表达式，对 item/label/rctx 求值，结果为 true 的候选被剔除。
	// 空表达式不剔除任何候选。
	Expr string
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}
