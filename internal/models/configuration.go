package models

type Configuration struct {
	App       AppConfiguration       `mapstructure:"app"       validate:"required"`
	Backend   BackendConfiguration   `mapstructure:"backend"   validate:"required"`
	Database  DatabaseConfiguration  `mapstructure:"database"  validate:"required"`
	Cache     CacheConfiguration     `mapstructure:"cache"     validate:"required"`
	Activity  ActivityConfiguration  `mapstructure:"activity"  validate:"required"`
	Telemetry TelemetryConfiguration `mapstructure:"telemetry"`
}

type AppConfiguration struct {
	Profile               string   `mapstructure:"profile"                 validate:"oneof=default api worker"`
	AllowedOrigins        []string `mapstructure:"allowed_origins"         validate:"required"`
	JWTSecret             string   `mapstructure:"jwt_secret"              validate:"required,min=16"`
	SessionTTL            int      `mapstructure:"session_ttl"             validate:"gte=5,lte=1440"`
	LogLevel              string   `mapstructure:"log_level"               validate:"oneof=debug info warn error fatal panic"`
	Port                  int      `mapstructure:"port"                    validate:"gte=80,lte=65535"`
	TrustedProxies        []string `mapstructure:"trusted_proxies"         validate:"required"`
	Locale                string   `mapstructure:"locale"                  validate:"oneof=it en"`
	Timezone              string   `mapstructure:"timezone"                validate:"required"`
	StatsCacheTTL         int      `mapstructure:"stats_cache_ttl"         validate:"gte=0,lte=3600"`
	RequestTimeout        int      `mapstructure:"request_timeout"         validate:"gte=1,lte=300"`
	RateLimitPerMinute    int      `mapstructure:"rate_limit_per_minute"   validate:"gte=1"`
	DefaultPageSize       int      `mapstructure:"default_page_size"       validate:"gte=1,lte=500"`
	MaxExtractFiles       int      `mapstructure:"max_extract_files"       validate:"gte=1,lte=100"`
	MaxExtractFileSize    int64    `mapstructure:"max_extract_file_size"   validate:"gte=1"`
	MaxExtractRequestSize int64    `mapstructure:"max_extract_request_size" validate:"gtefield=MaxExtractFileSize"`
}

type BackendConfiguration struct {
	BaseURL        string `mapstructure:"base_url"        validate:"required,http_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1,lte=300"`
}

type DatabaseConfiguration struct {
	Type     string `mapstructure:"type"     validate:"required,oneof=postgres sqlite"`
	Host     string `mapstructure:"host"     validate:"required_if=Type postgres"`
	Port     int32  `mapstructure:"port"     validate:"gte=80,lte=65535"`
	User     string `mapstructure:"user"     validate:"required_if=Type postgres"`
	Password string `mapstructure:"password" validate:"required_if=Type postgres"`
	Name     string `mapstructure:"name"     validate:"required_if=Type postgres"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"     validate:"required_if=Type sqlite"`
}

type CacheConfiguration struct {
	Type   string                    `mapstructure:"type"   validate:"required,oneof=redis valkey"`
	Redis  *RedisCacheConfiguration  `mapstructure:"redis"  validate:"required_if=Type redis"`
	Valkey *ValkeyCacheConfiguration `mapstructure:"valkey" validate:"required_if=Type valkey"`
}

type RedisCacheConfiguration struct {
	Hosts         []string `mapstructure:"hosts"`
	Password      string   `mapstructure:"password"`
	TLSEnabled    bool     `mapstructure:"tls_enabled"`
	TLSServerName string   `mapstructure:"tls_server_name"`
}

type ValkeyCacheConfiguration struct {
	Hosts         []string `mapstructure:"hosts"`
	Password      string   `mapstructure:"password"`
	TLSEnabled    bool     `mapstructure:"tls_enabled"`
	TLSServerName string   `mapstructure:"tls_server_name"`
}

type ActivityConfiguration struct {
	Type          string                           `mapstructure:"type"           validate:"required,oneof=filesystem"`
	RetentionDays int                              `mapstructure:"retention_days" validate:"gte=1,lte=3650"`
	Filesystem    *FilesystemActivityConfiguration `mapstructure:"filesystem"     validate:"required_if=Type filesystem"`
}

type FilesystemActivityConfiguration struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

type TelemetryConfiguration struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"     validate:"required_if=Enabled true,omitempty,http_url"`
	ServiceName string `mapstructure:"service_name"`
}

// DashboardConfig groups the settings the dashboard services need.
type DashboardConfig struct {
	Locale                string
	Timezone              string
	StatsCacheTTL         int
	DefaultPageSize       int
	MaxExtractFiles       int
	MaxExtractFileSize    int64
	MaxExtractRequestSize int64
}

// GetDashboardConfig extracts the dashboard settings from AppConfiguration.
func (c *AppConfiguration) GetDashboardConfig() DashboardConfig {
	return DashboardConfig{
		Locale:                c.Locale,
		Timezone:              c.Timezone,
		StatsCacheTTL:         c.StatsCacheTTL,
		DefaultPageSize:       c.DefaultPageSize,
		MaxExtractFiles:       c.MaxExtractFiles,
		MaxExtractFileSize:    c.MaxExtractFileSize,
		MaxExtractRequestSize: c.MaxExtractRequestSize,
	}
}
