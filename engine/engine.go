// Package engine 是推荐编排层：持有数据集与模型快照，对外暴露两个入口
// （按用户推荐、按书推荐）和一个重建入口。
//
// 设计要点：
//   - 快照整体替换：重建在旁路构建新的 (模型, 统计表)，完成后一次性发布，
//     进行中的读请求永远看到完整一致的模型，不会读到半成品
//   - 回退链是显式分支：只对具名的可恢复错误（NO_DATA / NOT_FOUND /
//     MODEL_UNAVAILABLE）切换策略，其余错误原样上抛，绝不 catch-all
//   - 请求之间无共享可变状态，全部读径都是纯函数 + 只读快照，可任意并发
package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/nicholaswilven/book-recsys/cf"
	"github.com/nicholaswilven/book-recsys/core"
	"github.com/nicholaswilven/book-recsys/dataset"
	"github.com/nicholaswilven/book-recsys/pkg/utils"
	"github.com/nicholaswilven/book-recsys/recall"
	"github.com/nicholaswilven/book-recsys/trad"
)

// Config 是引擎配置。
type Config struct {
	// Method 相似度方法：cosine / pearson，空值按 pearson 处理
	Method string `yaml:"method" json:"method"`

	// TopN 每次推荐返回的条数，<=0 时取 cf.DefaultTopN
	TopN int `yaml:"top_n" json:"top_n"`
}

// Engine 是推荐引擎。建议进程内单例：数据集加载一次，模型随 Rebuild 整体换代。
type Engine struct {
	ds     *dataset.Dataset
	method string
	topN   int

	snap atomic.Pointer[Snapshot]
}

// New 构建引擎：立即做一次全量建模并发布首个快照。
// 数据不足以建协同模型（MODEL_UNAVAILABLE）不是错误——引擎带着空模型启动，
// 全部请求走回退策略；配置错误（未知 method）直接失败。
func New(ctx context.Context, ds *dataset.Dataset, cfg Config) (*Engine, error) {
	topN := cfg.TopN
	if topN <= 0 {
		topN = cf.DefaultTopN
	}
	e := &Engine{
		ds:     ds,
		method: cfg.Method,
		topN:   topN,
	}
	if err := e.Rebuild(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Rebuild 全量重建模型与统计表，并以原子替换方式发布新快照。
// 模型不是增量维护的：评分数据变更后由调用方择机触发整体重建。
func (e *Engine) Rebuild(ctx context.Context) error {
	summary := trad.Summarize(e.ds.BookRatings)

	model, err := cf.Build(ctx, e.ds.BookRatings, e.method)
	if err != nil {
		if !core.IsModelUnavailable(err) {
			return err
		}
		model = nil // 数据不足：无协同模型，回退策略照常工作
	}

	e.snap.Store(&Snapshot{
		ds:      e.ds,
		model:   model,
		summary: summary,
	})
	return nil
}

// Snapshot 返回当前已发布的只读快照。
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// Options 是单次推荐请求的选项。
type Options struct {
	// SkipCF 为 true 时绕过协同过滤，直接走对应回退策略
	SkipCF bool

	// TopN 覆盖引擎默认返回条数，<=0 时沿用引擎配置
	TopN int

	// Exclude 调用方注入的禁推 title（运营下架等）
	Exclude []string
}

// Recommendation 是一次推荐的结果。
type Recommendation struct {
	// Model 标记实际使用的策略：cf_user / cf_book / age_cohort / popularity / title_match
	Model string

	// Items 是带分数和解释标签的候选序列，最优在前
	Items []*core.Item

	// Books 是候选解析出的完整图书档案，与 Items 同序、按 title 去重
	Books []core.Book
}

// RecommendForUser 为用户推荐图书。
//
// 分支逻辑：
//   - user_id 不存在 → INVALID_USER（面向调用方的硬错误，不回退）
//   - 协同过滤可用且未被绕过 → u2i；仅当返回 NO_DATA 时静默回退
//   - 回退：年龄已知走同龄人榜，未知走热度榜
//
// 回退策略产出为空时返回空结果，不是错误。
func (e *Engine) RecommendForUser(ctx context.Context, userID int64, opts Options) (*Recommendation, error) {
	snap := e.snap.Load()
	topN := e.requestTopN(opts)

	user, ok := snap.User(userID)
	if !ok {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidUser,
			fmt.Sprintf("engine: no existing user with id %d", userID))
	}

	exclude := excludeSet(opts.Exclude)

	if model, hasModel := snap.Model(); hasModel && !opts.SkipCF {
		items, err := model.RecommendByUser(snap.UserRatings(userID), topN, exclude)
		switch {
		case err == nil:
			return e.finish(snap, "cf_user", items), nil
		case core.IsNoData(err):
			// 用户与模型无交集，走回退
		default:
			return nil, err
		}
	}

	if user.AgeKnown() {
		items := trad.ByAgeCohort(user.Age, snap.Users(), snap.BookRatings(), topN, exclude)
		return e.finish(snap, "age_cohort", items), nil
	}
	items := trad.ByPopularity(snap.Summary(), topN, exclude)
	return e.finish(snap, "popularity", items), nil
}

// RecommendForBook 按一本书推荐相似图书。
//
// 分支逻辑：
//   - 协同过滤可用且未被绕过 → i2i（title 精确匹配）；仅当返回 NOT_FOUND 时静默回退
//   - 回退：标题模糊匹配（token set 相似度）
func (e *Engine) RecommendForBook(ctx context.Context, title string, opts Options) (*Recommendation, error) {
	snap := e.snap.Load()
	topN := e.requestTopN(opts)
	exclude := excludeSet(opts.Exclude)

	if model, hasModel := snap.Model(); hasModel && !opts.SkipCF {
		items, err := model.RecommendByBook(title, topN, exclude)
		switch {
		case err == nil:
			return e.finish(snap, "cf_book", items), nil
		case core.IsNotFound(err):
			// title 不在模型索引，走回退
		default:
			return nil, err
		}
	}

	items := trad.ByTitle(title, snap.BookRatings(), topN, exclude)
	return e.finish(snap, "title_match", items), nil
}

func (e *Engine) requestTopN(opts Options) int {
	if opts.TopN > 0 {
		return opts.TopN
	}
	return e.topN
}

// finish 给候选打上 rec_model 标签并解析图书档案（按 title 去重）。
func (e *Engine) finish(snap *Snapshot, model string, items []*core.Item) *Recommendation {
	titles := make([]string, 0, len(items))
	for _, it := range items {
		it.PutLabel("rec_model", utils.Label{Value: model, Source: "engine"})
		titles = append(titles, it.Title)
	}
	return &Recommendation{
		Model: model,
		Items: items,
		Books: snap.Catalog().Resolve(titles),
	}
}

func excludeSet(titles []string) map[string]bool {
	if len(titles) == 0 {
		return nil
	}
	set := make(map[string]bool, len(titles))
	for _, t := range titles {
		set[t] = true
	}
	return set
}

// Snapshot 是一次重建产出的只读视图：数据集、评分统计表、协同模型（可能缺席）。
// 实现 recall.Provider，召回节点可以直接消费。
type Snapshot struct {
	ds      *dataset.Dataset
	model   *cf.Model
	summary *trad.Summary
}

// Model 返回协同过滤模型；false 表示本次重建数据不足，没有模型。
func (s *Snapshot) Model() (*cf.Model, bool) {
	if s.model == nil {
		return nil, false
	}
	return s.model, true
}

// Summary 返回全量评分统计表。
func (s *Snapshot) Summary() *trad.Summary {
	return s.summary
}

// Users 返回用户表。
func (s *Snapshot) Users() []core.User {
	return s.ds.Users
}

// BookRatings 返回 ratings×books join。
func (s *Snapshot) BookRatings() []core.BookRating {
	return s.ds.BookRatings
}

// UserRatings 返回指定用户的全部评分行。
func (s *Snapshot) UserRatings(userID int64) []core.BookRating {
	return s.ds.UserRatings(userID)
}

// User 按 user_id 查用户档案。
func (s *Snapshot) User(userID int64) (core.User, bool) {
	return s.ds.User(userID)
}

// Catalog 返回 title -> 代表版本 的解析器。
func (s *Snapshot) Catalog() *core.Catalog {
	return s.ds.Catalog()
}

var _ recall.Provider = (*Snapshot)(nil)
