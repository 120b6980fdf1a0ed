package pipeline

import (
	"context"

	"github.com/nicholaswilven/book-recsys/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链：召回 → 过滤 → 重排。
// 引擎内置的编排走 engine 包的固定回退链；需要自定义组合
// （多路召回 fanout、表达式过滤、版本去重）时用 Pipeline 从配置搭。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
