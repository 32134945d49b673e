package startup

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/media"

	"github.com/gorilla/mux"
)

func TestPrintBanner(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	printBanner()
	w.Close()
	os.Stdout = stdout

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	banner := string(out)
	if !strings.Contains(banner, "gallery") {
		t.Errorf("banner missing name: %q", banner)
	}
	if strings.HasSuffix(banner, "\n\n") {
		t.Errorf("banner ends with a blank line: %q", banner)
	}
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}

	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetRoutes(t *testing.T) {
	noop := func(http.ResponseWriter, *http.Request) {}

	router := mux.NewRouter()
	router.HandleFunc("/", noop).Methods("GET").Name("gallery")
	router.HandleFunc("/api/gallery/next", noop).Methods("POST")
	router.HandleFunc("/api/gallery/settings", noop).Methods("PUT", "PATCH")
	router.HandleFunc("/health", noop)

	routes, err := GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes returned error: %v", err)
	}

	if len(routes) != 5 {
		t.Fatalf("Expected 5 routes, got %d: %+v", len(routes), routes)
	}

	if routes[0].Name != "gallery" || routes[0].Method != "GET" || routes[0].Path != "/" {
		t.Errorf("Unexpected first route: %+v", routes[0])
	}
	if routes[4].Method != "*" {
		t.Errorf("Route without methods should report *, got %q", routes[4].Method)
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", ""},
		{"/health", "health"},
		{"/nav/next", "nav"},
		{"/api/gallery/next", "api/gallery"},
		{"/api/thumbnail/{name}", "api/thumbnail"},
		{"/api", "api"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := getRouteGroup(tt.path); got != tt.want {
				t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestEnsureDirectoryCreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")

	if err := ensureDirectory(dir); err != nil {
		t.Fatalf("ensureDirectory returned error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
}

func TestEnsureDirectoryRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "images")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ensureDirectory(file); !errors.Is(err, errNotDirectory) {
		t.Errorf("expected errNotDirectory for a regular file, got %v", err)
	}
}

func TestLogWatcherInit(_ *testing.T) {
	LogWatcherInit(false, nil)
	LogWatcherInit(true, os.ErrNotExist)
	LogWatcherInit(true, nil)
}

func TestSummarize(t *testing.T) {
	config := &Config{
		ImageDir:        "/srv/images",
		Port:            "8080",
		MetricsPort:     "9090",
		SiteTitle:       "Portfolio",
		MemoryRatio:     0.85,
		DefaultSettings: gallery.DefaultSettings(),
		Thumbnails:      media.DefaultNormalizerOptions(),
	}

	values := map[string]string{}
	for _, s := range summarize(config) {
		values[s.name] = s.value
	}

	if values["IMAGE_DIR"] != "/srv/images" {
		t.Errorf("IMAGE_DIR = %q", values["IMAGE_DIR"])
	}
	if values["DEFAULT_PAGE_SIZE"] != "12" {
		t.Errorf("DEFAULT_PAGE_SIZE = %q", values["DEFAULT_PAGE_SIZE"])
	}
	if values["MEMORY_RATIO"] != "0.85" {
		t.Errorf("MEMORY_RATIO = %q", values["MEMORY_RATIO"])
	}
	if !strings.HasPrefix(values["THUMBNAIL_BACKGROUND"], "#") || len(values["THUMBNAIL_BACKGROUND"]) != 7 {
		t.Errorf("THUMBNAIL_BACKGROUND = %q", values["THUMBNAIL_BACKGROUND"])
	}
	if _, ok := values["CONFIG_FILE"]; ok {
		t.Error("CONFIG_FILE is only listed when a file was read")
	}
	if _, ok := values["MEMORY_LIMIT"]; ok {
		t.Error("MEMORY_LIMIT is only listed when set")
	}

	config.MemoryLimit = 512 << 20
	config.ConfigFile = "/etc/gallery.yaml"
	values = map[string]string{}
	for _, s := range summarize(config) {
		values[s.name] = s.value
	}
	if values["CONFIG_FILE"] != "/etc/gallery.yaml" || values["MEMORY_LIMIT"] == "" {
		t.Errorf("expected CONFIG_FILE and MEMORY_LIMIT, got %v", values)
	}
}

func TestOnOff(t *testing.T) {
	if got := onOff(true, "X"); got != "ON" {
		t.Errorf("onOff(true) = %q", got)
	}
	if got := onOff(false, "LOG_STATIC_FILES"); !strings.Contains(got, "LOG_STATIC_FILES=true") {
		t.Errorf("onOff(false) = %q", got)
	}
}
