// Package bookrecsys 是一个混合式图书推荐引擎。
//
// 设计要点：
//   - 双路检索：协同过滤优先（i2i 按书找书 / u2i 按用户找书），失效时按显式分支
//     回退到传统策略（热度榜 / 同龄人榜 / 标题模糊匹配）
//   - 快照整体替换：相似度模型离线全量重建，原子发布，读请求任意并发
//   - Labels-first: 每个候选带 recall_source / rec_model 标签，支持 explain / 观测
//   - Pipeline 可组合：各策略同时是 Recall Node，可通过 YAML 配置自由编排
package bookrecsys

import "github.com/nicholaswilven/book-recsys/pipeline"

// 轻量 facade：便于用户直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
