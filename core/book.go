package core

// Book 是图书档案的完整投影：isbn 唯一，title 不唯一（同一本书可能有多个版本）。
// 下游展示层消费的字段全部在此：isbn / title / author / year / pub / 封面图。
type Book struct {
	ISBN      string `json:"isbn" yaml:"isbn"`
	Title     string `json:"title" yaml:"title"`
	Author    string `json:"author" yaml:"author"`
	Year      int    `json:"year" yaml:"year"`
	Publisher string `json:"pub" yaml:"pub"`
	ImageURL  string `json:"img_url" yaml:"img_url"`
}

// Rating 是单条评分记录，Score 取值 [1,10]。
// 0 分表示"没有意见"，在加载阶段就被丢弃，不会进入模型。
type Rating struct {
	UserID int64  `json:"user_id"`
	ISBN   string `json:"isbn"`
	Score  int    `json:"rating"`
}

// User 是用户档案。Age 为 0 表示未知；有效年龄区间 [10,90] 在加载阶段约束，
// 区间外的值视为不可靠，按未知处理。
type User struct {
	ID       int64  `json:"user_id"`
	Age      int    `json:"age"`
	Location string `json:"location"`
}

// AgeKnown 返回用户年龄是否可用。
func (u User) AgeKnown() bool {
	return u.Age > 0
}

// BookRating 是 ratings 与 books 按 isbn join 之后的一行：
// 每个 (用户, 版本) 对各占一行。这是相似度模型与各个回退策略唯一消费的数据集。
type BookRating struct {
	UserID int64 `json:"user_id"`
	Score  int   `json:"rating"`
	Book
}

// RatingSummary 是按 title 聚合出的评分统计。没有评分的 title 不会出现。
type RatingSummary struct {
	Mean  float64 `json:"rating"`
	Count int     `json:"count"`
}

// Catalog 按加载顺序持有图书档案，负责 title -> 代表版本 的解析。
// title 不唯一，因此解析结果按 title 去重，取加载顺序中最先出现的版本。
type Catalog struct {
	books   []Book
	byTitle map[string]int // title -> 首个版本在 books 中的下标
}

// NewCatalog 创建 Catalog。books 的顺序决定了同名 title 去重时保留哪个版本。
func NewCatalog(books []Book) *Catalog {
	c := &Catalog{
		books:   books,
		byTitle: make(map[string]int, len(books)),
	}
	for i, b := range books {
		if _, ok := c.byTitle[b.Title]; !ok {
			c.byTitle[b.Title] = i
		}
	}
	return c
}

// ByTitle 返回 title 对应的代表版本。
func (c *Catalog) ByTitle(title string) (Book, bool) {
	i, ok := c.byTitle[title]
	if !ok {
		return Book{}, false
	}
	return c.books[i], true
}

// Resolve 将有序 title 列表解析为图书档案列表：
// 保持输入顺序，按 title 去重，查不到档案的 title 跳过。
func (c *Catalog) Resolve(titles []string) []Book {
	seen := make(map[string]bool, len(titles))
	out := make([]Book, 0, len(titles))
	for _, t := range titles {
		if seen[t] {
			continue
		}
		seen[t] = true
		if b, ok := c.ByTitle(t); ok {
			out = append(out, b)
		}
	}
	return out
}

// Len 返回档案总量（含重复 title 的不同版本）。
func (c *Catalog) Len() int {
	return len(c.books)
}
