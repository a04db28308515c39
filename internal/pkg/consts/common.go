package consts

const (
	DefaultAvatarURL = "default_avatar.png"
)

const (
	SessionHeader = "X-Session-Id"
	SessionCookie = "sid"
	TraceHeader   = "X-Trace-ID"
)

// 分类排序方式，对应查询参数 userbased
const (
	UserBasedNone      = 0
	UserBasedMatched   = 1
	UserBasedUnmatched = -1
)
