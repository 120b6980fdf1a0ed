// Package recall 把各检索策略（协同过滤、热度、同龄人、标题匹配）包装成
// 可在 Pipeline 中组合的召回源。策略本身的算法在 cf / trad 包，
// 这里只负责从请求上下文取参、从数据视图取数、把可恢复的失败折叠成空结果。
package recall

import (
	"context"

	"github.com/nicholaswilven/book-recsys/cf"
	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/trad"
)

// Source 表示一个可复用的召回源（热度/CF/标题匹配/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// Provider 暴露召回源需要的只读数据视图。
// 引擎的模型快照实现了此接口；重建通过整体替换快照完成，召回源自身无状态。
// 协同模型可能因数据不足不存在（Model 返回 false），各源按"没有就召不回"处理。
type Provider interface {
	// Model 返回当前协同过滤模型；false 表示没有可用模型
	Model() (*cf.Model, bool)

	// Summary 返回全量评分统计表
	Summary() *trad.Summary

	// Users 返回用户表
	Users() []core.User

	// BookRatings 返回 ratings×books join
	BookRatings() []core.BookRating

	// UserRatings 返回指定用户的全部评分行
	UserRatings(userID int64) []core.BookRating

	// User 按 user_id 查用户档案
	User(userID int64) (core.User, bool)
}
