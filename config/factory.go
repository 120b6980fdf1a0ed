package config

import (
	"fmt"
	"time"

	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/filter"
	"github.com/nicholaswilven/book-recsys/pipeline"
	"github.com/nicholaswilven/book-recsys/pkg/conv"
	"github.com/nicholaswilven/book-recsys/recall"
	"github.com/nicholaswilven/book-recsys/rerank"
)

// Deps 是配置驱动构建时注入的运行期依赖。
// 召回节点消费数据视图（引擎快照），Store 为可选的榜单/禁书单来源。
type Deps struct {
	Provider recall.Provider
	Store    core.Store
}

// DefaultFactory 返回一个包含所有内置 Node 的工厂，builder 闭包持有 deps。
//
// 已注册类型：
//   - recall.fanout / recall.pop / recall.title / recall.i2i / recall.u2i / recall.age
//   - filter
//   - rerank.topn / rerank.dedup_title
func DefaultFactory(deps Deps) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	factory.Register("recall.fanout", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildFanoutNode(deps, cfg)
	})
	factory.Register("recall.pop", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildPopNode(deps, cfg), nil
	})
	factory.Register("recall.title", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.TitleMatch{Provider: deps.Provider, TopN: conv.ConfigGetInt(cfg, "top_n", 0)}, nil
	})
	factory.Register("recall.i2i", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.ItemCF{Provider: deps.Provider, TopN: conv.ConfigGetInt(cfg, "top_n", 0)}, nil
	})
	factory.Register("recall.u2i", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.UserCF{Provider: deps.Provider, TopN: conv.ConfigGetInt(cfg, "top_n", 0)}, nil
	})
	factory.Register("recall.age", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.AgeCohort{
			Provider: deps.Provider,
			Age:      conv.ConfigGetInt(cfg, "age", 0),
			TopN:     conv.ConfigGetInt(cfg, "top_n", 0),
		}, nil
	})
	factory.Register("filter", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildFilterNode(deps, cfg), nil
	})
	factory.Register("rerank.topn", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
	})
	factory.Register("rerank.dedup_title", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerank.DedupTitleNode{}, nil
	})

	return factory
}

func buildPopNode(deps Deps, cfg map[string]interface{}) *recall.Popularity {
	return &recall.Popularity{
		Provider: deps.Provider,
		Store:    deps.Store,
		Key:      conv.ConfigGet(cfg, "key", ""),
		TopN:     conv.ConfigGetInt(cfg, "top_n", 0),
	}
}

func buildFilterNode(deps Deps, cfg map[string]interface{}) *filter.FilterNode {
	var filters []filter.Filter

	if titles := conv.SliceAnyToString(cfg["ban_titles"]); len(titles) > 0 {
		filters = append(filters, filter.NewBanListFilter(titles, nil, ""))
	}
	if key := conv.ConfigGet(cfg, "ban_key", ""); key != "" && deps.Store != nil {
		filters = append(filters, filter.NewBanListFilter(nil, filter.NewStoreAdapter(deps.Store), key))
	}
	if expr := conv.ConfigGet(cfg, "expr", ""); expr != "" {
		filters = append(filters, &filter.ExprFilter{Expr: expr})
	}

	return &filter.FilterNode{Filters: filters}
}

func buildFanoutNode(deps Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		topN := conv.ConfigGetInt(sourceMap, "top_n", 0)
		switch sourceType := conv.ConfigGet(sourceMap, "type", ""); sourceType {
		case "pop":
			sources = append(sources, buildPopNode(deps, sourceMap))
		case "title":
			sources = append(sources, &recall.TitleMatch{Provider: deps.Provider, TopN: topN})
		case "i2i":
			sources = append(sources, &recall.ItemCF{Provider: deps.Provider, TopN: topN})
		case "u2i":
			sources = append(sources, &recall.UserCF{Provider: deps.Provider, TopN: topN})
		case "age":
			sources = append(sources, &recall.AgeCohort{
				Provider: deps.Provider,
				Age:      conv.ConfigGetInt(sourceMap, "age", 0),
				TopN:     topN,
			})
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet(cfg, "dedup", true),
		MaxConcurrent: conv.ConfigGetInt(cfg, "max_concurrent", 0),
		MergeStrategy: conv.ConfigGet(cfg, "merge", "first"),
	}
	if ms := conv.ConfigGetInt(cfg, "timeout_ms", 0); ms > 0 {
		fanout.Timeout = time.Duration(ms) * time.Millisecond
	}
	return fanout, nil
}
