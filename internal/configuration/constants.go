package configuration

const AppName = "docshare-dashboard"

// JWT audience of the dashboard session token.
const AudienceSession = "dashboard:session"

const (
	CacheSessionKey             = "session:%s"
	CacheStatsKey               = "stats:%s:%s"
	CacheStatsScopePattern      = "stats:%s:*"
	CacheAppIdentityKey         = "app:identity"
	CacheMaxAppIdentityLifetime = 120
	CacheAppRateLimitKey        = "app:ratelimit:%s"
	CacheAppWorkerLockKey       = "app:worker:lock:%s" //nolint:gosec // not a credential
	CacheAppWorkerLockTTL       = 60
	CacheAppWorkerLockRefresh   = 55
)

const (
	StatsScopeAdmin  = "admin"
	StatsScopeSharer = "sharer:%d"
)

const (
	EventsActivity = "activity"
)

const (
	CacheRedis  = "redis"
	CacheValkey = "valkey"

	DatabaseSQLite   = "sqlite"

	ActivityFilesystem = "filesystem"
)

// Upload limits for the user data extraction endpoint.
const (
	MaxExtractFiles        = 30
	MaxExtractFileSize     = 12 * 1024 * 1024
	MaxExtractRequestSize  = MaxExtractFiles * MaxExtractFileSize
	ExtractMultipartMemory = 32 << 20
)

var ExtractAllowedContentTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/tiff",
	"image/webp",
}

const DefaultPageSize = 10

var ArrayConfigFields = []string{
	"app.trusted_proxies",
	"app.allowed_origins",
	"cache.redis.hosts",
	"cache.valkey.hosts",
}

var ConfigFileSearchPaths = []string{
	"./config.yaml",
	"templates/config.yaml",
}
