package rerank

import (
	"context"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在召回/过滤后截取前 N 个候选。
//
// 使用场景：
//   - 多路 fanout 合并后只保留前 10 条
//   - 控制返回结果数量
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.Fanout{...},      // 多路召回
//	        &rerank.DedupTitleNode{}, // 版本去重
//	        &rerank.TopNNode{N: 10},  // 截取 Top 10
//	    },
//	}
type TopNNode struct {
	// N 要保留的候选数量（Top N）
	// 如果 N <= 0，则返回所有候选（不截断）
	// 如果 N > len(items)，则返回所有候选
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 {
		return items, nil
	}
	if len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
