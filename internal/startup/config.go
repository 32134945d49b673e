package startup

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/media"
	"portfolio-gallery/internal/memory"

	"github.com/spf13/viper"
)

// Configuration keys. Each is read from the environment under its upper-case
// name (IMAGE_DIR, PORT, ...) or from the config file under the key itself.
const (
	KeyImageDir             = "image_dir"
	KeyPort                 = "port"
	KeyMetricsPort          = "metrics_port"
	KeyMetricsEnabled       = "metrics_enabled"
	KeyLogStaticFiles       = "log_static_files"
	KeyLogHealthChecks      = "log_health_checks"
	KeySiteTitle            = "site_title"
	KeyDefaultColumns       = "default_columns"
	KeyDefaultPageSize      = "default_page_size"
	KeyThumbnailBackground  = "thumbnail_background"
	KeyThumbnailFlatten     = "thumbnail_flatten"
	KeyThumbnailCache       = "thumbnail_cache_entries"
	KeyThumbnailCacheBytes  = "thumbnail_cache_bytes"
	KeyThumbnailRevalidate  = "thumbnail_revalidate"
	KeyThumbnailSize        = "thumbnail_size"
	KeyThumbnailQuality     = "thumbnail_quality"
	KeyWatchEnabled         = "watch_enabled"
	KeySessionTTL           = "session_ttl"
	KeyMemoryLimit          = "memory_limit"
	KeyMemoryRatio          = "memory_ratio"
	defaultSiteTitle        = "Portfolio"
	defaultSessionTTL       = 24 * time.Hour
	defaultThumbnailBgColor = "#0e1117"
)

// Config holds all application configuration
type Config struct {
	ImageDir        string
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	LogStaticFiles  bool
	LogHealthChecks bool
	SiteTitle       string
	WatchEnabled    bool
	SessionTTL      time.Duration

	// MemoryLimit is the container memory budget in bytes, 0 when unknown.
	MemoryLimit int64
	MemoryRatio float64

	// DefaultSettings is the layout new sessions start with.
	DefaultSettings gallery.Settings
	Thumbnails      media.NormalizerOptions

	// ConfigFile is the file that was read, if any.
	ConfigFile string
}

// NewViper returns a viper instance with defaults, environment binding and,
// when configPath is set, the given config file loaded.
func NewViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyImageDir, "images")
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyMetricsPort, "9090")
	v.SetDefault(KeyMetricsEnabled, true)
	v.SetDefault(KeyLogStaticFiles, false)
	v.SetDefault(KeyLogHealthChecks, true)
	v.SetDefault(KeySiteTitle, defaultSiteTitle)
	v.SetDefault(KeyDefaultColumns, gallery.DefaultColumns)
	v.SetDefault(KeyDefaultPageSize, gallery.DefaultPageSize)
	v.SetDefault(KeyThumbnailBackground, defaultThumbnailBgColor)
	v.SetDefault(KeyThumbnailFlatten, string(media.FlattenBackground))
	v.SetDefault(KeyThumbnailCache, media.DefaultCacheEntries)
	v.SetDefault(KeyThumbnailCacheBytes, media.DefaultCacheBytes)
	v.SetDefault(KeyThumbnailRevalidate, true)
	v.SetDefault(KeyThumbnailSize, 0)
	v.SetDefault(KeyThumbnailQuality, media.DefaultJPEGQuality)
	v.SetDefault(KeyWatchEnabled, true)
	v.SetDefault(KeySessionTTL, defaultSessionTTL.String())
	v.SetDefault(KeyMemoryLimit, 0)
	v.SetDefault(KeyMemoryRatio, memory.DefaultRatio)
}

// FromViper builds a Config from v. Invalid values are logged and replaced
// by their defaults; only an unresolvable image directory is an error.
func FromViper(v *viper.Viper) (*Config, error) {
	imageDir, err := filepath.Abs(v.GetString(KeyImageDir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image directory path: %w", err)
	}

	settings := gallery.Settings{
		Columns:  getInt(v, KeyDefaultColumns, gallery.DefaultColumns),
		PageSize: getInt(v, KeyDefaultPageSize, gallery.DefaultPageSize),
	}
	if settings.Columns < gallery.MinColumns || settings.Columns > gallery.MaxColumns {
		logging.Warn("Invalid DEFAULT_COLUMNS %d, using default: %d", settings.Columns, gallery.DefaultColumns)
		settings.Columns = gallery.DefaultColumns
	}
	if err := settings.Validate(); err != nil {
		logging.Warn("Invalid DEFAULT_PAGE_SIZE %d, using default: %d", settings.PageSize, gallery.DefaultPageSize)
		settings.PageSize = gallery.DefaultPageSize
	}

	thumbs := media.DefaultNormalizerOptions()

	bg := v.GetString(KeyThumbnailBackground)
	if parsed, err := media.ParseColor(bg); err != nil {
		logging.Warn("Invalid THUMBNAIL_BACKGROUND %q, using default: %s", bg, defaultThumbnailBgColor)
	} else {
		thumbs.Background = parsed
	}

	flatten := v.GetString(KeyThumbnailFlatten)
	if mode, err := media.ParseFlattenMode(flatten); err != nil {
		logging.Warn("Invalid THUMBNAIL_FLATTEN %q, using default: %s", flatten, media.FlattenBackground)
	} else {
		thumbs.Flatten = mode
	}

	thumbs.CacheEntries = getInt(v, KeyThumbnailCache, media.DefaultCacheEntries)
	if thumbs.CacheEntries <= 0 {
		logging.Warn("Invalid THUMBNAIL_CACHE_ENTRIES %d, using default: %d", thumbs.CacheEntries, media.DefaultCacheEntries)
		thumbs.CacheEntries = media.DefaultCacheEntries
	}

	thumbs.CacheBytes = getInt64(v, KeyThumbnailCacheBytes, media.DefaultCacheBytes)
	if thumbs.CacheBytes <= 0 {
		logging.Warn("Invalid THUMBNAIL_CACHE_BYTES %d, using default: %d", thumbs.CacheBytes, media.DefaultCacheBytes)
		thumbs.CacheBytes = media.DefaultCacheBytes
	}

	thumbs.Size = getInt(v, KeyThumbnailSize, 0)
	if thumbs.Size < 0 {
		logging.Warn("Invalid THUMBNAIL_SIZE %d, using full size", thumbs.Size)
		thumbs.Size = 0
	}

	thumbs.Quality = getInt(v, KeyThumbnailQuality, media.DefaultJPEGQuality)
	if thumbs.Quality < 1 || thumbs.Quality > 100 {
		logging.Warn("Invalid THUMBNAIL_QUALITY %d, using default: %d", thumbs.Quality, media.DefaultJPEGQuality)
		thumbs.Quality = media.DefaultJPEGQuality
	}

	thumbs.Revalidate = getBool(v, KeyThumbnailRevalidate, true)

	memoryLimit := getInt64(v, KeyMemoryLimit, 0)
	if memoryLimit < 0 {
		logging.Warn("Invalid MEMORY_LIMIT %d, ignoring", memoryLimit)
		memoryLimit = 0
	}
	memoryRatio := getFloat(v, KeyMemoryRatio, memory.DefaultRatio)
	if memoryRatio <= 0 || memoryRatio > 1 {
		logging.Warn("MEMORY_RATIO %v out of range (0.0-1.0), using default %.2f", memoryRatio, memory.DefaultRatio)
		memoryRatio = memory.DefaultRatio
	}

	return &Config{
		ImageDir:        imageDir,
		Port:            v.GetString(KeyPort),
		MetricsPort:     v.GetString(KeyMetricsPort),
		MetricsEnabled:  getBool(v, KeyMetricsEnabled, true),
		LogStaticFiles:  getBool(v, KeyLogStaticFiles, false),
		LogHealthChecks: getBool(v, KeyLogHealthChecks, true),
		SiteTitle:       v.GetString(KeySiteTitle),
		WatchEnabled:    getBool(v, KeyWatchEnabled, true),
		SessionTTL:      getDuration(v, KeySessionTTL, defaultSessionTTL),
		MemoryLimit:     memoryLimit,
		MemoryRatio:     memoryRatio,
		DefaultSettings: settings,
		Thumbnails:      thumbs,
		ConfigFile:      v.ConfigFileUsed(),
	}, nil
}

func envName(key string) string {
	return strings.ToUpper(key)
}

func getBool(v *viper.Viper, key string, defaultValue bool) bool {
	value := v.GetString(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", envName(key), value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getInt(v *viper.Viper, key string, defaultValue int) int {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", envName(key), value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getDuration(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	value := v.GetString(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		logging.Warn("Invalid duration for %s: %q, using default: %v", envName(key), value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getInt64(v *viper.Viper, key string, defaultValue int64) int64 {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", envName(key), value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getFloat(v *viper.Viper, key string, defaultValue float64) float64 {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logging.Warn("Invalid number for %s: %q, using default: %v", envName(key), value, defaultValue)
		return defaultValue
	}
	return parsed
}
