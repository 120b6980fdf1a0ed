package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/pipeline"
	"github.com/nicholaswilven/book-recsys/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
// 支持超时、限流、优先级合并策略。候选的业务键是 title，去重也按 title。
type Fanout struct {
	Sources []Source
	Dedup   bool

	// Timeout 是每个召回源的超时时间。各源在入口检查取消信号，
	// 走 Store 的源在 I/O 上也响应取消；纯内存源一旦开算不会中途放弃。
	Timeout time.Duration

	MaxConcurrent int    // 最大并发数（0 表示无限制）
	MergeStrategy string // 合并策略：first / union / priority（优先级按 Sources 顺序）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var (
		mu    sync.Mutex
		eg, _ = errgroup.WithContext(ctx)
	)
	// 按源序分桶收集，保证合并输入顺序与 Sources 顺序一致（与调度无关）
	buckets := make([][]*core.Item, len(n.Sources))

	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		s := src
		idx := i

		eg.Go(func() error {
			recallCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时该源返回空结果，不中断其他召回源
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, it := range items {
				it.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
			}

			mu.Lock()
			buckets[idx] = items
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	all := make([]*core.Item, 0)
	for _, b := range buckets {
		all = append(all, b...)
	}

	// 合并策略。priority 与 first 在按源序收集后语义一致：
	// 排在前面的源先占住 title。union 不去重。
	switch n.MergeStrategy {
	case "union":
		return all, nil
	default: // "first" / "priority"
		return n.mergeFirst(all), nil
	}
}

// mergeFirst 按 title 去重，保留第一个出现的；后到者的 labels 合并进先到者。
func (n *Fanout) mergeFirst(all []*core.Item) []*core.Item {
	if !n.Dedup {
		return all
	}
	seen := make(map[string]*core.Item, len(all))
	out := make([]*core.Item, 0, len(all))
	for _, it := range all {
		if it == nil {
			continue
		}
		if old, ok := seen[it.Title]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.Title] = it
		out = append(out, it)
	}
	return out
}
