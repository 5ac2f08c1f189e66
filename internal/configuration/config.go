package configuration

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dashboard/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

func parseArrayFields(k *koanf.Koanf) {
	for _, field := range ArrayConfigFields {
		if stringVal := k.String(field); stringVal != "" {
			stringVal = strings.Trim(stringVal, "[]")
			var items []string
			if strings.Contains(stringVal, ",") {
				items = strings.Split(stringVal, ",")
			} else {
				items = strings.Fields(stringVal)
			}
			for i, item := range items {
				items[i] = strings.TrimSpace(item)
			}
			err := k.Set(field, items)
			if err != nil {
				zap.L().
					Error("Error parsing array field", zap.String("field", field), zap.Error(err))
			}
		}
	}
}

func readEnvVars(k *koanf.Koanf) {
	err := k.Load(env.Provider("", ".", func(s string) string {
		s = strings.ToLower(s)
		segments := strings.Split(s, "__")
		result := strings.Join(segments, ".")
		return result
	}), nil)
	if err != nil {
		zap.L().Warn("Error loading environment variables", zap.Error(err))
	}

	parseArrayFields(k)
}

func readFileConfig(k *koanf.Koanf) {
	configFilePath := os.Getenv("CONFIG_FILE_PATH")
	var filePath string
	if configFilePath == "" {
		for _, path := range ConfigFileSearchPaths {
			if _, err := os.Stat(path); err == nil {
				filePath = path
				break
			}
		}
	} else {
		filePath = configFilePath
	}

	if filePath != "" {
		err := k.Load(file.Provider(filePath), yaml.Parser())
		if err != nil {
			zap.L().
				Fatal("Fatal error loading config file", zap.String("path", filePath), zap.Error(err))
		}
		zap.L().Info("Read configuration from file " + filePath)
	} else {
		zap.L().Warn("No configuration file found")
	}
}

func loadDefaults(k *koanf.Koanf) {
	defaults := map[string]interface{}{
		"app.profile":                  "default",
		"app.session_ttl":              480,
		"app.log_level":                "info",
		"app.port":                     8080,
		"app.locale":                   "it",
		"app.timezone":                 "Europe/Rome",
		"app.stats_cache_ttl":          60,
		"app.request_timeout":          30,
		"app.rate_limit_per_minute":    300,
		"app.default_page_size":        DefaultPageSize,
		"app.max_extract_files":        MaxExtractFiles,
		"app.max_extract_file_size":    int64(MaxExtractFileSize),
		"app.max_extract_request_size": int64(MaxExtractRequestSize),

		"backend.timeout_seconds": 30,

		"database.type": "postgres",
		"database.port": int32(5432),

		"activity.type":           "filesystem",
		"activity.retention_days": 365,

		"telemetry.service_name": AppName,
	}

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		zap.L().Fatal("Failed to load default configuration", zap.Error(err))
	}
}

func setIfMissing(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		_ = k.Set(key, value)
	}
}

func loadConditionalDefaults(k *koanf.Koanf) {
	if k.String("database.type") == "sqlite" {
		setIfMissing(k, "database.path", "dashboard.db")
	}
	if k.String("activity.type") == "filesystem" {
		setIfMissing(k, "activity.filesystem.directory", "data/activity")
	}
}

// Parse decodes and validates the configuration accumulated in k.
func Parse(k *koanf.Koanf) (models.Configuration, error) {
	var config models.Configuration
	err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{Tag: "mapstructure"})
	if err != nil {
		return models.Configuration{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	validate := validator.New()
	if err = validate.Struct(config); err != nil {
		return models.Configuration{}, fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err = time.LoadLocation(config.App.Timezone); err != nil {
		return models.Configuration{}, fmt.Errorf("invalid timezone %q: %w", config.App.Timezone, err)
	}

	return config, nil
}

func Read() models.Configuration {
	k := koanf.New(".")

	loadDefaults(k)
	readFileConfig(k)
	readEnvVars(k)
	loadConditionalDefaults(k)

	config, err := Parse(k)
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	return config
}
