// Package cf 实现基于物品的协同过滤核心（Item-based Collaborative Filtering）。
//
// 核心思想："被同一批用户喜欢的书，相互相似"
//
// 算法流程：
//  1. 过滤活跃用户与热门图书（双重门槛，保证矩阵密度）
//  2. 透视为 title × user 的稠密评分矩阵，缺失填 0
//  3. 计算 title 两两相似度（Cosine / Pearson）
//  4. 两条检索路径：按书找书（i2i）、按用户找书（u2i）
//
// 工程特征：
//   - 模型整体重建，构建后只读，可被任意多请求并发消费
//   - 行列顺序在构建时排序固定，所有查找复用同一索引
//   - 相同输入重建得到逐位相同的矩阵（结果与并发度无关）
package cf

import (
	"context"
	"fmt"
	"sort"

	"github.com/nicholaswilven/book-recsys/core"
)

// 过滤门槛。写死而非按次配置：阈值一变，模型横向不可比。
const (
	// MinUserRatings 活跃用户门槛：评分数严格大于此值的用户才参与建模。
	MinUserRatings = 10

	// MinBookRatings 热门图书门槛：在活跃用户中获得至少此数量评分的 title 才进入矩阵。
	MinBookRatings = 5

	// MaxSeedBooks 用户推荐时最多取用户评分最高的前几本书作为种子。
	MaxSeedBooks = 10

	// DefaultTopN 检索默认返回条数。
	DefaultTopN = 10
)

// 相似度方法。空字符串按 Pearson 处理，其余未知取值是配置错误。
const (
	MethodCosine  = "cosine"
	MethodPearson = "pearson"
)

// Model 是一次构建产出的只读相似度模型。
// Titles 与 UserIDs 是构建时排序后固定的行列顺序；Sim 与 Ratings 按此顺序索引。
// 构建完成后不再修改，整体替换由持有方（engine）负责。
type Model struct {
	// Method 是构建时使用的相似度方法（MethodCosine / MethodPearson）。
	Method string

	// Titles 是矩阵行顺序（排序后的热门 title）。
	Titles []string

	// UserIDs 是矩阵列顺序（排序后的活跃用户）。
	UserIDs []int64

	// Ratings 是 title × user 的稠密评分矩阵，缺失填 0。
	// 填 0 是建模选择：把"没评过"当作中性偏低的偏好信号，保证矩阵足够稠密。
	Ratings [][]float64

	// Sim 是 title × title 的相似度矩阵，与 Titles 同序。
	Sim [][]float64

	index map[string]int // title -> 行下标
}

// Index 返回 title 在矩阵中的行下标（精确匹配）。
func (m *Model) Index(title string) (int, bool) {
	i, ok := m.index[title]
	return i, ok
}

// Len 返回模型收录的 title 数量。
func (m *Model) Len() int {
	return len(m.Titles)
}

// Build 从 book_ratings join 构建相似度模型。
//
// 失败情形：
//   - 未知 method → INVALID_CONFIG（不可恢复，立即上报）
//   - 过滤后存活 title 或用户不足 2 → MODEL_UNAVAILABLE（调用方视为"没有协同模型可用"）
func Build(ctx context.Context, bookRatings []core.BookRating, method string) (*Model, error) {
	switch method {
	case "":
		method = MethodPearson
	case MethodCosine, MethodPearson:
	default:
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("cf: unknown similarity method %q", method))
	}

	// 活跃用户：评分数 > MinUserRatings（按 join 行计数，一个版本一行）
	perUser := make(map[int64]int)
	for _, r := range bookRatings {
		perUser[r.UserID]++
	}
	knowledgeable := make(map[int64]bool, len(perUser))
	for id, n := range perUser {
		if n > MinUserRatings {
			knowledgeable[id] = true
		}
	}

	// 热门图书：只在活跃用户的评分里计数，title 评分数 >= MinBookRatings
	perTitle := make(map[string]int)
	for _, r := range bookRatings {
		if knowledgeable[r.UserID] {
			perTitle[r.Title]++
		}
	}
	famous := make(map[string]bool, len(perTitle))
	for t, n := range perTitle {
		if n >= MinBookRatings {
			famous[t] = true
		}
	}

	// 行列顺序排序固定，保证重建结果逐位一致
	titles := make([]string, 0, len(famous))
	for t := range famous {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	userSet := make(map[int64]bool)
	for _, r := range bookRatings {
		if knowledgeable[r.UserID] && famous[r.Title] {
			userSet[r.UserID] = true
		}
	}
	userIDs := make([]int64, 0, len(userSet))
	for id := range userSet {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	if len(titles) < 2 || len(userIDs) < 2 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeModelUnavailable,
			fmt.Sprintf("cf: not enough data to build model (%d titles, %d users)", len(titles), len(userIDs)))
	}

	index := make(map[string]int, len(titles))
	for i, t := range titles {
		index[t] = i
	}
	userIndex := make(map[int64]int, len(userIDs))
	for j, id := range userIDs {
		userIndex[id] = j
	}

	// 透视：同一 (title, user) 因多版本出现多次时取均值
	sums := make([][]float64, len(titles))
	counts := make([][]int, len(titles))
	for i := range sums {
		sums[i] = make([]float64, len(userIDs))
		counts[i] = make([]int, len(userIDs))
	}
	for _, r := range bookRatings {
		i, ok := index[r.Title]
		if !ok {
			continue
		}
		j, ok := userIndex[r.UserID]
		if !ok {
			continue
		}
		sums[i][j] += float64(r.Score)
		counts[i][j]++
	}
	ratings := make([][]float64, len(titles))
	for i := range ratings {
		ratings[i] = make([]float64, len(userIDs))
		for j := range ratings[i] {
			if counts[i][j] > 0 {
				ratings[i][j] = sums[i][j] / float64(counts[i][j])
			}
		}
	}

	sim, err := similarityMatrix(ctx, ratings, method)
	if err != nil {
		return nil, err
	}

	return &Model{
		Method:  method,
		Titles:  titles,
		UserIDs: userIDs,
		Ratings: ratings,
		Sim:     sim,
		index:   index,
	}, nil
}
