package consts

const (
	UserAffinityKey      = "user:affinity:"
	UserAffinityGenKey   = "user:affinity:gen:"
	UserFollowingKey     = "user:following:"
	UserFollowingGenKey  = "user:following:gen:"
	AuthorFootprintDirty = "author:footprint:dirty"
	ArticleViewLock      = "lock:article:view:"
	UserTraceLock        = "lock:user:trace:"
	TokenBlacklistKey    = "token:blacklist:"
	FootprintRebuildLock = "lock:footprint:rebuild"
)
