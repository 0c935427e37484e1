package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/drummonds/pdfire/engine/pdfrenderer"
	"github.com/drummonds/pdfire/geometry"
	"github.com/drummonds/pdfire/options"
	"github.com/drummonds/pdfire/pdferr"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// Settings holds the defaults documents are opened with. Per-call options
// passed to a document always take precedence.
type Settings struct {
	Renderer          string // pdfium or fitz
	RenderWidth       float64
	RenderQuality     string
	RenderFormat      string
	WatermarkRotation float64
	WatermarkOpacity  float64
	WatermarkWidth    float64
	WatermarkAnchor   string
	FetchTimeout      time.Duration
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatVal
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Renderer:          pdfrenderer.KindPDFium,
		RenderWidth:       options.DefaultTargetWidth,
		RenderQuality:     options.Medium.String(),
		RenderFormat:      options.PNG.String(),
		WatermarkRotation: options.DefaultRotation,
		WatermarkOpacity:  options.DefaultOpacity,
		WatermarkWidth:    options.DefaultWidthRelativeToPage,
		WatermarkAnchor:   geometry.Center.String(),
		FetchTimeout:      120 * time.Second,
	}
}

// Load reads settings from the environment, falling back to Default for
// anything unset or unparsable.
func Load() Settings {
	d := Default()
	return Settings{
		Renderer:          getEnv("PDFIRE_RENDERER", d.Renderer),
		RenderWidth:       getEnvFloat("PDFIRE_RENDER_WIDTH", d.RenderWidth),
		RenderQuality:     getEnv("PDFIRE_RENDER_QUALITY", d.RenderQuality),
		RenderFormat:      getEnv("PDFIRE_RENDER_FORMAT", d.RenderFormat),
		WatermarkRotation: getEnvFloat("PDFIRE_WATERMARK_ROTATION", d.WatermarkRotation),
		WatermarkOpacity:  getEnvFloat("PDFIRE_WATERMARK_OPACITY", d.WatermarkOpacity),
		WatermarkWidth:    getEnvFloat("PDFIRE_WATERMARK_WIDTH", d.WatermarkWidth),
		WatermarkAnchor:   getEnv("PDFIRE_WATERMARK_ANCHOR", d.WatermarkAnchor),
		FetchTimeout:      time.Duration(getEnvInt("PDFIRE_FETCH_TIMEOUT", int(d.FetchTimeout/time.Second))) * time.Second,
	}
}

// Setup loads .env files, builds the logger and returns the settings.
func Setup() (Settings, *slog.Logger) {
	// Load .env file (silently ignore if doesn't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("pdfire.env")

	logger := setupLogging()
	Logger = logger

	settings := Load()
	logger.Info("Configuration loaded",
		"renderer", settings.Renderer,
		"renderWidth", settings.RenderWidth,
		"renderQuality", settings.RenderQuality,
		"watermarkAnchor", settings.WatermarkAnchor)

	return settings, logger
}

// RenderingOptions builds validated rendering options from s.
func (s Settings) RenderingOptions() (*options.Rendering, error) {
	quality, err := options.ParseQuality(s.RenderQuality)
	if err != nil {
		return nil, err
	}
	format, err := options.ParseFormat(s.RenderFormat)
	if err != nil {
		return nil, err
	}
	return options.NewRendering(
		options.WithTargetWidth(s.RenderWidth),
		options.WithQuality(quality),
		options.WithFormat(format),
	)
}

// WatermarkOptions builds validated watermark options from s.
func (s Settings) WatermarkOptions() (*options.Watermark, error) {
	anchor, err := geometry.ParseAnchor(s.WatermarkAnchor)
	if err != nil {
		return nil, err
	}
	return options.NewWatermark(
		options.WithRotation(s.WatermarkRotation),
		options.WithOpacity(s.WatermarkOpacity),
		options.WithWidthRelativeToPage(s.WatermarkWidth),
		options.WithAnchor(anchor),
	)
}

// Validate checks every setting, including the renderer name.
func (s Settings) Validate() error {
	switch s.Renderer {
	case pdfrenderer.KindPDFium, pdfrenderer.KindFitz:
	default:
		return pdferr.Invalid("Renderer", s.Renderer, pdfrenderer.KindPDFium+" or "+pdfrenderer.KindFitz)
	}
	if s.FetchTimeout <= 0 {
		return pdferr.Invalid("FetchTimeout", s.FetchTimeout, "a positive duration")
	}
	if _, err := s.RenderingOptions(); err != nil {
		return err
	}
	_, err := s.WatermarkOptions()
	return err
}

// setupLogging configures the application logger
func setupLogging() *slog.Logger {
	logLevel := getEnv("LOG_LEVEL", "info")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	logOutput := getEnv("LOG_OUTPUT", "stdout")
	var logWriter io.Writer

	switch logOutput {
	case "discard":
		logWriter = io.Discard
	case "file":
		logPath, err := filepath.Abs(filepath.ToSlash(getEnv("LOG_FILE", "pdfire.log")))
		if err != nil {
			fmt.Printf("Error creating log file path: %v\n", err)
			logWriter = os.Stdout
		} else {
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				fmt.Printf("Failed to open log file: %v\n", err)
				logWriter = os.Stdout
			} else {
				logWriter = logFile
			}
		}
	default:
		logWriter = os.Stdout
	}

	handler := slog.NewTextHandler(logWriter, handlerOptions)
	return slog.New(handler)
}
