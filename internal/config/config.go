// Package config handles application configuration and command-line argument parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/joe/frame-exporter/pkg/filesystem"
)

// Exported constants.
const (
	DefaultFPS     = 30
	DefaultColumns = 3
	MaxColumns     = 12
	MaxFPS         = 240

	// ScratchFolderName is the folder frames are extracted into (wiped before every run)
	ScratchFolderName = "framesTemp"
	// StagingFolderName sits next to the scratch folder and holds downloaded remote videos (wiped before every download)
	StagingFolderName = "sourceTemp"
	// DefaultLogName is the debug log file created in the temp dir when --log is not set
	DefaultLogName = "frame-exporter-debug.log"
)

// FrameFormat is the image format ffmpeg writes frames in
type FrameFormat string

// Supported frame formats
const (
	FormatPNG  FrameFormat = "png"
	FormatJPEG FrameFormat = "jpg"
	FormatBMP  FrameFormat = "bmp"
	FormatWebP FrameFormat = "webp"
	FormatTIFF FrameFormat = "tiff"
)

// String returns the file extension for the format
func (f FrameFormat) String() string {
	return string(f)
}

// ParseFrameFormat parses a string into a FrameFormat
func ParseFrameFormat(s string) (FrameFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	case "webp":
		return FormatWebP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return FormatPNG, fmt.Errorf("invalid frame format: %s (valid: png, jpg, bmp, webp, tiff)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (f *FrameFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseFrameFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Config holds the application configuration
type Config struct {
	VideoPath     string      `arg:"-v,--video,env:FRAME_EXPORTER_VIDEO" help:"Video to extract right away (local path, file:// or sftp:// URL)"`
	DownloadsPath string      `arg:"-d,--downloads,env:FRAME_EXPORTER_DOWNLOADS" help:"Where exported frames go (local path or sftp://user@host/path; default ~/Downloads)"`
	ScratchPath   string      `arg:"--scratch,env:FRAME_EXPORTER_SCRATCH" help:"Scratch folder for extracted frames; wiped before every extraction"`
	FPS           int         `arg:"--fps" default:"30" help:"Frames sampled per second of video"`
	Format        FrameFormat `arg:"--format" default:"png" help:"Frame image format: png|jpg|bmp|webp|tiff"`
	FFmpegPath    string      `arg:"--ffmpeg,env:FRAME_EXPORTER_FFMPEG" default:"ffmpeg" help:"ffmpeg executable"`
	FFprobePath   string      `arg:"--ffprobe,env:FRAME_EXPORTER_FFPROBE" default:"ffprobe" help:"ffprobe executable (duration probe, optional)"`
	Columns       int         `arg:"--columns" default:"3" help:"Columns in the frame grid"`
	LogPath       string      `arg:"--log,env:FRAME_EXPORTER_LOG" help:"Debug log file"`
	Debug         bool        `arg:"--debug" help:"Log at debug level"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Split a video into frames with ffmpeg, pick the ones you want, and export them to your downloads"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "frame-exporter 1.0.0"
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// PostProcessConfig fills in path defaults and validates a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	if cfg.FPS == 0 {
		cfg.FPS = DefaultFPS
	}

	if cfg.Format == "" {
		cfg.Format = FormatPNG
	}

	if cfg.Columns == 0 {
		cfg.Columns = DefaultColumns
	}

	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}

	if cfg.DownloadsPath == "" {
		cfg.DownloadsPath = defaultDownloadsPath()
	}

	if cfg.ScratchPath == "" {
		cfg.ScratchPath = defaultScratchPath()
	}

	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(os.TempDir(), DefaultLogName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and that the scratch folder is safe to wipe
func (cfg *Config) Validate() error {
	if cfg.FPS < 1 || cfg.FPS > MaxFPS {
		return fmt.Errorf("fps must be between 1 and %d, got %d", MaxFPS, cfg.FPS)
	}

	if cfg.Columns < 1 || cfg.Columns > MaxColumns {
		return fmt.Errorf("columns must be between 1 and %d, got %d", MaxColumns, cfg.Columns)
	}

	if _, err := ParseFrameFormat(cfg.Format.String()); err != nil {
		return err
	}

	if cfg.DownloadsPath == "" {
		return fmt.Errorf("downloads path is required")
	}

	if filesystem.IsRemotePath(cfg.DownloadsPath) {
		if _, err := filesystem.ParsePath(cfg.DownloadsPath); err != nil {
			return fmt.Errorf("invalid downloads URL: %w", err)
		}
	}

	if cfg.VideoPath != "" && filesystem.IsRemotePath(cfg.VideoPath) {
		if _, err := filesystem.ParsePath(cfg.VideoPath); err != nil {
			return fmt.Errorf("invalid video URL: %w", err)
		}
	}

	return cfg.validateScratch()
}

func (cfg *Config) validateScratch() error {
	if cfg.ScratchPath == "" {
		return fmt.Errorf("scratch path is required")
	}

	if filesystem.IsRemotePath(cfg.ScratchPath) {
		return fmt.Errorf("scratch path must be local: %s", cfg.ScratchPath)
	}

	scratch, err := filepath.Abs(cfg.ScratchPath)
	if err != nil {
		return fmt.Errorf("cannot resolve scratch path: %w", err)
	}

	if scratch == filepath.Dir(scratch) {
		return fmt.Errorf("scratch path cannot be a filesystem root: %s", scratch)
	}

	home, homeErr := os.UserHomeDir()
	if homeErr == nil {
		home = filepath.Clean(home)
	}

	if homeErr == nil && scratch == home {
		return fmt.Errorf("scratch path cannot be your home directory: %s", scratch)
	}

	// The staging folder is wiped too, so its parent gets the same protection
	parent := filepath.Dir(scratch)
	staging := filepath.Join(parent, StagingFolderName)

	if parent == filepath.Dir(parent) {
		return fmt.Errorf("scratch path cannot sit directly in a filesystem root, the staging folder would be %s", staging)
	}

	if homeErr == nil && (parent == home || isWithin(home, staging)) {
		return fmt.Errorf("scratch path cannot sit directly in your home directory, the staging folder would be %s", staging)
	}

	if !filesystem.IsRemotePath(cfg.DownloadsPath) {
		downloads, err := filepath.Abs(cfg.DownloadsPath)
		if err != nil {
			return fmt.Errorf("cannot resolve downloads path: %w", err)
		}

		if isWithin(downloads, scratch) {
			return fmt.Errorf("downloads path cannot be inside the scratch folder: %s", downloads)
		}

		if isWithin(downloads, staging) {
			return fmt.Errorf("downloads path cannot be inside the staging folder: %s", downloads)
		}
	}

	return nil
}

// StagingPath returns the folder remote videos are downloaded into.
func (cfg *Config) StagingPath() string {
	return filepath.Join(filepath.Dir(cfg.ScratchPath), StagingFolderName)
}

// isWithin reports whether path equals dir or is below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func defaultDownloadsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "Downloads")
	}

	return filepath.Join(home, "Downloads")
}

func defaultScratchPath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}

	return filepath.Join(cacheDir, "frame-exporter", ScratchFolderName)
}
