// Package dataset 负责三张关系表（books / ratings / users）的加载、清洗与 join，
// 并提供推荐引擎消费的内存索引。引擎核心只认清洗完成的数据，
// 所有口径修正（年份越界、0 分、不可靠年龄）都在这一层完成。
package dataset

import (
	"github.com/nicholaswilven/book-recsys/core"
)

// Dataset 是加载完成的只读数据集：三张关系表加上 ratings×books 的 join，
// 以及按用户维度的索引。构建后不再修改。
type Dataset struct {
	Books   []core.Book
	Ratings []core.Rating
	Users   []core.User

	// BookRatings 是 ratings 与 books 按 isbn join 的结果，
	// 每个 (用户, 版本) 对一行。模型构建与回退策略唯一消费的数据集。
	BookRatings []core.BookRating

	catalog       *core.Catalog
	usersByID     map[int64]core.User
	ratingsByUser map[int64][]core.BookRating
}

// New 从清洗后的三张关系表组装数据集：做 join、建索引。
func New(books []core.Book, ratings []core.Rating, users []core.User) *Dataset {
	d := &Dataset{
		Books:   books,
		Ratings: ratings,
		Users:   users,
	}

	byISBN := make(map[string]core.Book, len(books))
	for _, b := range books {
		if _, ok := byISBN[b.ISBN]; !ok {
			byISBN[b.ISBN] = b
		}
	}

	d.BookRatings = make([]core.BookRating, 0, len(ratings))
	for _, r := range ratings {
		b, ok := byISBN[r.ISBN]
		if !ok {
			continue // 没有档案的评分在 join 时自然丢弃
		}
		d.BookRatings = append(d.BookRatings, core.BookRating{
			UserID: r.UserID,
			Score:  r.Score,
			Book:   b,
		})
	}

	d.catalog = core.NewCatalog(books)

	d.usersByID = make(map[int64]core.User, len(users))
	for _, u := range users {
		if _, ok := d.usersByID[u.ID]; !ok {
			d.usersByID[u.ID] = u
		}
	}

	d.ratingsByUser = make(map[int64][]core.BookRating)
	for _, r := range d.BookRatings {
		d.ratingsByUser[r.UserID] = append(d.ratingsByUser[r.UserID], r)
	}

	return d
}

// Catalog 返回 title -> 代表版本 的解析器。
func (d *Dataset) Catalog() *core.Catalog {
	return d.catalog
}

// User 按 user_id 查用户档案。
func (d *Dataset) User(id int64) (core.User, bool) {
	u, ok := d.usersByID[id]
	return u, ok
}

// UserRatings 返回该用户的全部评分行（join 后，保持加载顺序）。
func (d *Dataset) UserRatings(id int64) []core.BookRating {
	return d.ratingsByUser[id]
}
