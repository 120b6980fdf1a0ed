package filter

import (
	"context"
	"encoding/json"

	"github.com/nicholaswilven/book-recsys/core"
)

// BanListFilter 是禁书单过滤器：剔除已读/禁推的 title。
// 协同过滤路径里已读书在召回内部排除，禁书单过滤器覆盖的是
// 组装 pipeline 时由外部注入的排除集（运营下架、用户拉黑等）。
type BanListFilter struct {
	// Titles 是内存中的禁推 title 列表
	Titles []string

	// Store 用于从存储中读取禁书单（可选）
	Store BanListStore

	// Key 是 Store 中的禁书单 key（可选）
	Key string
}

// BanListStore 是禁书单存储接口。
type BanListStore interface {
	// GetBanList 获取禁推 title 列表
	GetBanList(ctx context.Context, key string) ([]string, error)
}

// NewBanListFilter 创建一个禁书单过滤器。
func NewBanListFilter(titles []string, storeAdapter *StoreAdapter, key string) *BanListFilter {
	var store BanListStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BanListFilter{
		Titles: titles,
		Store:  store,
		Key:    key,
	}
}

func (f *BanListFilter) Name() string {
	return "filter.banlist"
}

func (f *BanListFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	// 从内存列表检查
	for _, t := range f.Titles {
		if item.Title == t {
			return true, nil
		}
	}

	// 从 Store 检查
	if f.Store != nil && f.Key != "" {
		banned, err := f.Store.GetBanList(ctx, f.Key)
		if err == nil {
			for _, t := range banned {
				if item.Title == t {
					return true, nil
				}
			}
		}
	}

	return false, nil
}

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 禁书单在存储中是 JSON 的 title 数组。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBanList 从 Store 读取禁书单。key 不存在视为空单。
func (a *StoreAdapter) GetBanList(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var titles []string
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

var _ BanListStore = (*StoreAdapter)(nil)
