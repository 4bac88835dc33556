// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package vision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Compile-time interface check.
var _ FrameExtractor = (*FFmpegExtractor)(nil)

type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execCommandRunner struct{}

func (r execCommandRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(output))
	if err != nil {
		return "", fmt.Errorf("running %s: %s: %w", name, trimmed, err)
	}
	return trimmed, nil
}

// FFmpegExtractor implements FrameExtractor by shelling out to the ffmpeg
// and ffprobe binaries. All failures are logged and reported as ok=false,
// never as errors, matching the best-effort extractor contract.
type FFmpegExtractor struct {
	ffmpegBin  string
	ffprobeBin string
	runner     commandRunner
	logger     *slog.Logger
}

// NewFFmpegExtractor creates an extractor using the given binaries.
// Empty binary names default to "ffmpeg" and "ffprobe" on PATH.
func NewFFmpegExtractor(ffmpegBin, ffprobeBin string) *FFmpegExtractor {
	return newFFmpegExtractorWithRunner(ffmpegBin, ffprobeBin, execCommandRunner{})
}

func newFFmpegExtractorWithRunner(ffmpegBin, ffprobeBin string, runner commandRunner) *FFmpegExtractor {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	if runner == nil {
		runner = execCommandRunner{}
	}
	return &FFmpegExtractor{
		ffmpegBin:  ffmpegBin,
		ffprobeBin: ffprobeBin,
		runner:     runner,
		logger:     slog.Default(),
	}
}

// ExtractFrame captures a single JPEG frame at the given offset.
func (e *FFmpegExtractor) ExtractFrame(ctx context.Context, videoPath string, offset time.Duration) ([]byte, bool) {
	tmpDir, err := os.MkdirTemp("", "mediavault-frame-*")
	if err != nil {
		e.logger.Warn("frame extraction failed: temp dir", "video", videoPath, "error", err)
		return nil, false
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	framePath := filepath.Join(tmpDir, "frame.jpg")

	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = e.runner.Run(runCtx, e.ffmpegBin,
		"-i", videoPath,
		"-ss", formatOffset(offset),
		"-vframes", "1",
		"-y", framePath,
	)
	if err != nil {
		e.logger.Warn("frame extraction failed", "video", videoPath, "error", err)
		return nil, false
	}

	frame, err := os.ReadFile(framePath)
	if err != nil || len(frame) == 0 {
		e.logger.Warn("frame extraction produced no output", "video", videoPath, "error", err)
		return nil, false
	}

	return frame, true
}

// ProbeDuration reads the container duration in seconds via ffprobe.
func (e *FFmpegExtractor) ProbeDuration(ctx context.Context, videoPath string) (float64, bool) {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out, err := e.runner.Run(runCtx, e.ffprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	if err != nil {
		e.logger.Warn("duration probe failed", "video", videoPath, "error", err)
		return 0, false
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		e.logger.Warn("duration probe returned unparseable output", "video", videoPath, "output", out)
		return 0, false
	}

	return duration, true
}

/// formatOffset renders a duration as HH:MM:SS for ffmpeg's -ss flag.
func formatOffset(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
