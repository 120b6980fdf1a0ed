package rerank

import (
	"context"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pipeline"
)

// DedupTitleNode 按 title 去重，保留首个出现的候选。
// 同一本书的多个版本（不同 isbn、相同 title）在链路里可能多次出现，
// 返回给调用方之前必须收敛到每个 title 一条。
type DedupTitleNode struct{}

func (n *DedupTitleNode) Name() string {
	return "rerank.dedup_title"
}

func (n *DedupTitleNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *DedupTitleNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]bool, len(items))
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if seen[it.Title] {
			continue
		}
		seen[it.Title] = true
		out = append(out, it)
	}
	return out, nil
}
