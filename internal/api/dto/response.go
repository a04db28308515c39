package dto

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageDTO 分页结果
type PageDTO[T any] struct {
	CurrentPage int  `json:"currentPage"`
	HasMore     bool `json:"hasMore"`
	Data        []T  `json:"data"`
}
