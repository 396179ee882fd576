// Package extractor runs ffmpeg to split a video into still frames.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/joe/frame-exporter/internal/logging"
)

// Exported constants.
const (
	DefaultBinary      = "ffmpeg"
	DefaultProbeBinary = "ffprobe"
	DefaultFPS         = 30
	DefaultFormat      = "png"
	// DefaultBaseName replaces a display name with nothing usable left after sanitizing
	DefaultBaseName = "video"

	outputTailBytes = 2048
)

// Exported variables.
var (
	ErrFFmpegNotFound = errors.New("ffmpeg executable not found")
	ErrFFmpegFailed   = errors.New("ffmpeg failed")
)

// FFmpeg extracts frames by shelling out to ffmpeg.
type FFmpeg struct {
	binary      string
	probeBinary string
	fps         int
	format      string
	logger      *zap.Logger
}

// Option configures an FFmpeg extractor.
type Option func(*FFmpeg)

// WithBinary sets the ffmpeg executable.
func WithBinary(path string) Option {
	return func(f *FFmpeg) {
		if path != "" {
			f.binary = path
		}
	}
}

// WithProbeBinary sets the ffprobe executable. An empty path disables the duration probe.
func WithProbeBinary(path string) Option {
	return func(f *FFmpeg) {
		f.probeBinary = path
	}
}

// WithFPS sets how many frames are sampled per second of video.
func WithFPS(fps int) Option {
	return func(f *FFmpeg) {
		if fps > 0 {
			f.fps = fps
		}
	}
}

// WithFormat sets the image format (file extension) of the frames.
func WithFormat(format string) Option {
	return func(f *FFmpeg) {
		if format = strings.TrimPrefix(format, "."); format != "" {
			f.format = format
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *FFmpeg) {
		f.logger = logging.OrNop(logger)
	}
}

// New creates an extractor with the defaults: ffmpeg, 30 fps, png.
func New(opts ...Option) *FFmpeg {
	f := &FFmpeg{
		binary:      DefaultBinary,
		probeBinary: DefaultProbeBinary,
		fps:         DefaultFPS,
		format:      DefaultFormat,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Args returns the ffmpeg arguments used to extract videoPath into outputDir.
func (f *FFmpeg) Args(videoPath, outputDir, baseName string) []string {
	pattern := fmt.Sprintf("%s_frame_%%04d.%s", SanitizeName(baseName), f.format)

	return []string{
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=%d", f.fps),
		"-y",
		filepath.Join(outputDir, pattern),
	}
}

// ExtractFrames writes <baseName>_frame_NNNN.<format> files into outputDir.
func (f *FFmpeg) ExtractFrames(ctx context.Context, videoPath, outputDir, baseName string) error {
	if f.probeBinary != "" {
		duration, err := f.ProbeDuration(ctx, videoPath)
		if err != nil {
			f.logger.Warn("could not get video duration", zap.Error(err))
		} else {
			f.logger.Info("video probed",
				zap.String("video", videoPath),
				zap.Duration("duration", duration),
				zap.Int("expected_frames", int(duration.Seconds()*float64(f.fps))))
		}
	}

	args := f.Args(videoPath, outputDir, baseName)
	f.logger.Debug("running ffmpeg", zap.String("binary", f.binary), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, f.binary, args...) // #nosec G204 - binary is user configuration

	started := time.Now()
	output, err := cmd.CombinedOutput()

	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s: %w", ErrFFmpegNotFound, f.binary, err)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg interrupted: %w", ctxErr)
		}

		return fmt.Errorf("%w: %w, output: %s", ErrFFmpegFailed, err, tail(output))
	}

	f.logger.Info("ffmpeg finished",
		zap.String("video", videoPath),
		zap.Duration("elapsed", time.Since(started)))

	return nil
}

// ProbeDuration asks ffprobe for the video's duration.
func (f *FFmpeg) ProbeDuration(ctx context.Context, videoPath string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, f.probeBinary, // #nosec G204 - binary is user configuration
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// SanitizeName makes name safe for a frame file name and the ffmpeg output pattern.
func SanitizeName(name string) string {
	var b strings.Builder

	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return DefaultBaseName
	}

	return cleaned
}

func tail(output []byte) string {
	text := strings.TrimSpace(string(output))
	if len(text) > outputTailBytes {
		text = "..." + text[len(text)-outputTailBytes:]
	}

	return text
}
