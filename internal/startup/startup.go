package startup

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/memory"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo describes one method and path registered on the router.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

const rule = "------------------------------------------------------------"

// section logs a ruled heading after a blank line.
func section(title string) {
	logging.Info("")
	logging.Info(rule)
	logging.Info("%s", title)
	logging.Info(rule)
}

// setting is one NAME: value line of the configuration summary.
type setting struct {
	name  string
	value string
}

// summarize lists the effective configuration under its environment names.
// Settings that are unset are left out.
func summarize(c *Config) []setting {
	var out []setting
	add := func(key string, value any) {
		out = append(out, setting{name: envName(key), value: fmt.Sprint(value)})
	}

	if c.ConfigFile != "" {
		out = append(out, setting{name: "CONFIG_FILE", value: c.ConfigFile})
	}
	add(KeyImageDir, c.ImageDir)
	add(KeyPort, c.Port)
	add(KeyMetricsPort, c.MetricsPort)
	add(KeyMetricsEnabled, c.MetricsEnabled)
	add(KeySiteTitle, c.SiteTitle)
	add(KeyDefaultColumns, c.DefaultSettings.Columns)
	add(KeyDefaultPageSize, c.DefaultSettings.PageSize)
	bg := c.Thumbnails.Background
	add(KeyThumbnailBackground, fmt.Sprintf("#%02x%02x%02x", bg.R, bg.G, bg.B))
	add(KeyThumbnailFlatten, c.Thumbnails.Flatten)
	add(KeyThumbnailCache, c.Thumbnails.CacheEntries)
	add(KeyThumbnailCacheBytes, memory.FormatBytes(c.Thumbnails.CacheBytes))
	add(KeyThumbnailRevalidate, c.Thumbnails.Revalidate)
	add(KeyThumbnailSize, c.Thumbnails.Size)
	add(KeyThumbnailQuality, c.Thumbnails.Quality)
	add(KeyWatchEnabled, c.WatchEnabled)
	add(KeySessionTTL, c.SessionTTL)
	if c.MemoryLimit > 0 {
		add(KeyMemoryLimit, memory.FormatBytes(c.MemoryLimit))
	}
	add(KeyMemoryRatio, fmt.Sprintf("%.2f", c.MemoryRatio))
	add(KeyLogStaticFiles, c.LogStaticFiles)
	add(KeyLogHealthChecks, c.LogHealthChecks)
	out = append(out, setting{name: "LOG_LEVEL", value: logging.GetLevel().String()})
	return out
}

// LoadConfig loads configuration from defaults, the optional CONFIG_FILE and
// environment variables, logs it and makes sure the image directory exists.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	v, err := NewViper(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	config, err := FromViper(v)
	if err != nil {
		return nil, err
	}

	section("CONFIGURATION")
	for _, s := range summarize(config) {
		logging.Info("  %-25s %s", s.name+":", s.value)
	}

	section("DIRECTORY SETUP")
	logging.Info("  Image directory (absolute): %s", config.ImageDir)
	if err := ensureDirectory(config.ImageDir); err != nil {
		logging.Warn("  Image directory issue: %v", err)
	}

	return config, nil
}

// LogGalleryInit logs the result of the initial catalog scan.
func LogGalleryInit(entries int, scanDuration time.Duration) {
	section("GALLERY INITIALIZATION")
	if entries == 0 {
		logging.Info("  Catalog is empty, add .webp/.png/.jpg/.jpeg files to the image directory")
		return
	}
	logging.Info("  [OK] Catalog: %d images scanned in %v", entries, scanDuration)
}

// LogWatcherInit logs whether the directory watcher is running
func LogWatcherInit(enabled bool, err error) {
	switch {
	case !enabled:
		logging.Info("  Watcher disabled, catalog rescanned on every render")
	case err != nil:
		logging.Warn("  Watcher failed to start: %v", err)
		logging.Warn("  Falling back to rescanning on every render")
	default:
		logging.Info("  [OK] Watching image directory for changes")
	}
}

// GetRoutes lists every method and path on router. Routes without a method
// matcher, such as the static file prefix, are reported as "*".
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			path, err = route.GetPathRegexp()
			if err != nil {
				return err
			}
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{Method: method, Path: path, Name: route.GetName()})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs the access log settings and, at debug level, every
// registered route grouped by its first path segments.
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	section("HTTP SERVER SETUP")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}
		logging.Debug("  Registered routes (%d total):", len(routes))

		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			g := getRouteGroup(route.Path)
			groups[g] = append(groups[g], route)
		}
		names := make([]string, 0, len(groups))
		for g := range groups {
			names = append(names, g)
		}
		slices.Sort(names)

		for _, g := range names {
			label := g
			if label == "" {
				label = "root"
			}
			logging.Debug("  [%s]", label)
			for _, route := range groups[g] {
				logging.Debug("    %-6s %s", route.Method, route.Path)
			}
		}
	}

	logging.Info("  HTTP logging enabled")
	logging.Info("    Static file logging:  %s", onOff(logStaticFiles, "LOG_STATIC_FILES"))
	logging.Info("    Health check logging: %s", onOff(logHealthChecks, "LOG_HEALTH_CHECKS"))
}

func onOff(enabled bool, env string) string {
	if enabled {
		return "ON"
	}
	return fmt.Sprintf("OFF (set %s=true to enable)", env)
}

// getRouteGroup returns the first path segment, or "api/<resource>" for
// API routes.
func getRouteGroup(path string) string {
	first, rest, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if first == "api" && rest != "" {
		resource, _, _ := strings.Cut(rest, "/")
		return "api/" + resource
	}
	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs where the gallery and its metrics can be reached.
func LogServerStarted(config ServerConfig) {
	section("SERVER STARTED")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("  Gallery:         http://localhost:%s/", config.Port)
	logging.Info("  API:             http://localhost:%s/api/gallery", config.Port)
	if config.MetricsEnabled {
		logging.Info("  Metrics:         http://localhost:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("  Metrics:         DISABLED")
	}
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info(rule)
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	section(fmt.Sprintf("SHUTDOWN INITIATED (received %s)", signal))
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	fmt.Print(`
------------------------------------------------------------
    ____             __  ____      ___
   / __ \____  _____/ /_/ __/___  / (_)___
  / /_/ / __ \/ ___/ __/ /_/ __ \/ / / __ \
 / ____/ /_/ / /  / /_/ __/ /_/ / / / /_/ /
/_/    \____/_/   \__/_/  \____/_/_/\____/   gallery
`)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
}

func logSystemInfo() {
	section("SYSTEM INFORMATION")
	procs := runtime.GOMAXPROCS(0)
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", procs)
	if procs < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}
	if limit := memory.CurrentLimit(); limit > 0 {
		logging.Info("  GOMEMLIMIT:      %s", memory.FormatBytes(limit))
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}
}

var errNotDirectory = errors.New("path exists but is not a directory")

// ensureDirectory creates path when it does not exist.
func ensureDirectory(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Warn("  Image directory does not exist, creating %s", path)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to stat directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("%s: %w", path, errNotDirectory)
	}

	logging.Debug("  [OK] Image directory exists")
	return nil
}
