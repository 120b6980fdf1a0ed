package core

import "github.com/nicholaswilven/book-recsys/pkg/utils"

// RecommendContext 承载单次推荐请求的输入，贯穿整个链路透传。
// 两类请求二选一：给 UserID 走用户推荐，给 Title 走相似图书推荐。
type RecommendContext struct {
	// UserID 是接受推荐的用户；为 0 表示本次请求不是用户维度。
	UserID int64

	// Title 是入口图书的 title（精确匹配键，模糊匹配只发生在回退策略里）。
	Title string

	// SkipCF 为 true 时绕过协同过滤，直接走对应的回退策略。
	SkipCF bool

	// Labels 是请求级标签，可驱动链路行为（新用户、冷启动等）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数，例如 age、banned_titles 等。
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
