package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），编排层只对具名错误分支，不做 catch-all
//
// 错误分两类：
//   - 可恢复：MODEL_UNAVAILABLE / NOT_FOUND / NO_DATA，编排层据此切换回退策略
//   - 不可恢复：INVALID_USER（未注册用户，直接上报）、INVALID_CONFIG（配置错误，立即失败）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "NO_DATA"）
	Message string // 错误消息
	Module  string // 模块名称（如 "model", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeModelUnavailable = "MODEL_UNAVAILABLE" // 存活用户/图书不足，建不出相似度模型
	ErrorCodeNotFound         = "NOT_FOUND"         // title 不在模型索引（或 store key 不存在）
	ErrorCodeNoData           = "NO_DATA"           // 用户评分与模型索引无交集，协同过滤不适用
	ErrorCodeInvalidUser      = "INVALID_USER"      // user_id 不存在，面向调用方的硬错误
	ErrorCodeInvalidConfig    = "INVALID_CONFIG"    // 配置错误（未知相似度方法等），不可恢复
	ErrorCodeNotSupported     = "NOT_SUPPORTED"     // 操作不支持
)

// 模块名称常量
const (
	ModuleModel  = "model"  // 相似度模型
	ModuleRecall = "recall" // 召回模块
	ModuleEngine = "engine" // 编排模块
	ModuleStore  = "store"  // 存储模块
)

// IsModelUnavailable 检查错误是否为 MODEL_UNAVAILABLE
func IsModelUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeModelUnavailable
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNoData 检查错误是否为 NO_DATA
func IsNoData(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNoData
	}
	return false
}

// IsInvalidUser 检查错误是否为 INVALID_USER
func IsInvalidUser(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidUser
	}
	return false
}

// IsInvalidConfig 检查错误是否为 INVALID_CONFIG
func IsInvalidConfig(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidConfig
	}
	return false
}

// IsRecoverable 返回错误是否属于编排层可以静默切换回退策略的类别。
func IsRecoverable(err error) bool {
	return IsModelUnavailable(err) || IsNotFound(err) || IsNoData(err)
}
