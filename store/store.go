package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口。
//
// 示例：
//   var s core.Store = NewMemoryStore()
//   var kv core.KeyValueStore = NewMemoryStore()
//
// 本库中的典型用途：
//   - 热门榜：离线任务把 title 热度写入有序集合，recall.Popularity 直接 ZRange
//   - 禁书单：filter.BanListFilter 从 key 读取 JSON title 数组
//   - 数据集：dataset.FromStore 加载序列化的三张关系表
