package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid     = errors.New("参数错误")
	ErrCategoryInvalid  = errors.New("分类不存在")
	ErrArticleNotFound  = errors.New("文章不存在")
	ErrUserNotFound     = errors.New("用户不存在")
	ErrListNotFound     = errors.New("收藏夹不存在")
	ErrListForbidden    = errors.New("无权访问该收藏夹")
	ErrStoreUnavailable = errors.New("存储暂不可用，请稍后重试")
	ErrResourceBusy     = errors.New("资源繁忙，请稍后重试")
	UnauthorizedError   = errors.New("权限不足")
	UnExpectedError     = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:     BadRequest,
	ErrCategoryInvalid:  BadRequest,
	ErrArticleNotFound:  NotFound,
	ErrUserNotFound:     NotFound,
	ErrListNotFound:     NotFound,
	ErrListForbidden:    Forbidden,
	ErrStoreUnavailable: ServiceUnavailable,
	ErrResourceBusy:     ServiceUnavailable,
	UnauthorizedError:   Unauthorized,
	UnExpectedError:     InternalServerError,
}

// CodeOf 找出 err 链上第一个已登记的业务错误
func CodeOf(err error) (error, int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return err, code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return target, code, true
		}
	}
	return nil, InternalServerError, false
}
