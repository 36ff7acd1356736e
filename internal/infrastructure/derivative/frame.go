package derivative

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"recipehub/media-api/internal/config"
)

// FrameGrabber extracts a single JPEG frame from a video file on disk.
type FrameGrabber interface {
	GrabFrame(ctx context.Context, videoPath string) ([]byte, error)
}

// FFmpegFrameGrabber shells out to ffmpeg and captures the frame from stdout.
type FFmpegFrameGrabber struct {
	ffmpegPath string
	offset     time.Duration
	size       int
	timeout    time.Duration
}

func NewFFmpegFrameGrabber(cfg *config.Config) *FFmpegFrameGrabber {
	return &FFmpegFrameGrabber{
		ffmpegPath: cfg.FFmpegPath,
		offset:     cfg.VideoFrameOffset,
		size:       cfg.ThumbnailSize,
		timeout:    cfg.FFmpegTimeout,
	}
}

// GrabFrame runs ffmpeg under a timeout; the process is killed when it expires.
func (f *FFmpegFrameGrabber) GrabFrame(ctx context.Context, videoPath string) ([]byte, error) {
	if videoPath == "" {
		return nil, fmt.Errorf("videoPath required")
	}
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return nil, fmt.Errorf("missing required binary %q in PATH: %w", f.ffmpegPath, err)
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, f.args(videoPath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("ffmpeg timed out after %s", f.timeout)
		}
		return nil, fmt.Errorf("ffmpeg frame extraction failed: %w; out=%s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame; out=%s", strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func (f *FFmpegFrameGrabber) args(videoPath string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", strconv.FormatFloat(f.offset.Seconds(), 'f', -1, 64),
		"-i", videoPath,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", f.size, f.size),
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"pipe:1",
	}
}
