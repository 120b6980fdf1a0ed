package core

import "github.com/nicholaswilven/book-recsys/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选 title、分数、标签。
// title 是图书在全链路中的唯一业务键（isbn 只在最终解析档案时出现）；
// Score 用于排序决策；Labels 用于解释与策略驱动。
type Item struct {
	Title  string
	Score  float64
	Labels map[string]utils.Label
}

func NewItem(title string) *Item {
	return &Item{
		Title:  title,
		Score:  0,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
