package dataset

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/nicholaswilven/book-recsys/core"
)

// 存储中三张关系表的 key 布局：
//   {prefix}:books   -> []core.Book (JSON)
//   {prefix}:users   -> []core.User (JSON)
//   {prefix}:ratings -> 后端支持 KeyValueStore 时按用户分片的 Hash，
//                       field 为十进制 user_id，value 为该用户的 []core.Rating (JSON)；
//                       否则整表一个 JSON key
//
// 评分表按用户分片：全量重建按序拼回整表，单个用户的增量查询
// （见 UserRatingsFromStore）只拉自己的分片。

// FromStore 从 core.Store 加载已序列化的三张关系表并组装数据集。
// 生产环境配 RedisStore，测试配 MemoryStore。关系表在写入侧就应当是
// 清洗完成的（与 LoadCSV 的产出同口径）。
func FromStore(ctx context.Context, s core.Store, keyPrefix string) (*Dataset, error) {
	if keyPrefix == "" {
		keyPrefix = "bookrec"
	}

	var books []core.Book
	if err := loadJSON(ctx, s, keyPrefix+":books", &books); err != nil {
		return nil, err
	}
	var users []core.User
	if err := loadJSON(ctx, s, keyPrefix+":users", &users); err != nil {
		return nil, err
	}
	ratings, err := loadRatings(ctx, s, keyPrefix+":ratings")
	if err != nil {
		return nil, err
	}

	return New(books, ratings, users), nil
}

// SaveToStore 把数据集的三张关系表序列化写入 Store，是 FromStore 的逆操作。
// 测试准备数据、离线任务发布清洗结果时使用。
func SaveToStore(ctx context.Context, s core.Store, keyPrefix string, d *Dataset) error {
	if keyPrefix == "" {
		keyPrefix = "bookrec"
	}

	kvs := make(map[string][]byte, 2)
	for key, v := range map[string]any{
		keyPrefix + ":books": d.Books,
		keyPrefix + ":users": d.Users,
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		kvs[key] = data
	}
	if err := s.BatchSet(ctx, kvs); err != nil {
		return err
	}
	return saveRatings(ctx, s, keyPrefix+":ratings", d.Ratings)
}

// UserRatingsFromStore 只读取单个用户的评分分片，不加载整个数据集。
// 用户没有分片（从没评过分）不是错误，返回空。
func UserRatingsFromStore(ctx context.Context, s core.KeyValueStore, keyPrefix string, userID int64) ([]core.Rating, error) {
	if keyPrefix == "" {
		keyPrefix = "bookrec"
	}

	data, err := s.HGet(ctx, keyPrefix+":ratings", strconv.FormatInt(userID, 10))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var ratings []core.Rating
	if err := json.Unmarshal(data, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

func saveRatings(ctx context.Context, s core.Store, key string, ratings []core.Rating) error {
	kv, ok := s.(core.KeyValueStore)
	if !ok {
		data, err := json.Marshal(ratings)
		if err != nil {
			return err
		}
		return s.Set(ctx, key, data)
	}

	byUser := make(map[int64][]core.Rating)
	for _, r := range ratings {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	for id, rows := range byUser {
		data, err := json.Marshal(rows)
		if err != nil {
			return err
		}
		if err := kv.HSet(ctx, key, strconv.FormatInt(id, 10), data); err != nil {
			return err
		}
	}
	return nil
}

func loadRatings(ctx context.Context, s core.Store, key string) ([]core.Rating, error) {
	kv, ok := s.(core.KeyValueStore)
	if !ok {
		var ratings []core.Rating
		if err := loadJSON(ctx, s, key, &ratings); err != nil {
			return nil, err
		}
		return ratings, nil
	}

	fields, err := kv.HGetAll(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, core.ErrStoreNotFound
	}

	// 分片按 user_id 升序拼回，整表顺序与写入次序无关
	ids := make([]string, 0, len(fields))
	for f := range fields {
		ids = append(ids, f)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.ParseInt(ids[i], 10, 64)
		b, _ := strconv.ParseInt(ids[j], 10, 64)
		return a < b
	})

	var ratings []core.Rating
	for _, f := range ids {
		var rows []core.Rating
		if err := json.Unmarshal(fields[f], &rows); err != nil {
			return nil, err
		}
		ratings = append(ratings, rows...)
	}
	return ratings, nil
}

func loadJSON(ctx context.Context, s core.Store, key string, out any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
