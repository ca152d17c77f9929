package domain

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// kilobitsPerMegabyte converts a size in megabytes to kilobits (1024 KB * 8).
const kilobitsPerMegabyte = 8192

// maxBitrateKbps caps the computed target so a near-zero duration cannot
// overflow the conversion to int.
const maxBitrateKbps = math.MaxInt32

type CodecProfile string

const (
	ProfileVP9Opus CodecProfile = "vp9_opus"
	ProfileH264AAC CodecProfile = "h264_aac"
)

func (p CodecProfile) VideoEncoder() string {
	if p == ProfileVP9Opus {
		return "libvpx-vp9"
	}
	return "libx264"
}

func (p CodecProfile) AudioEncoder() string {
	if p == ProfileVP9Opus {
		return "libopus"
	}
	return "aac"
}

// CRF is the constant-quality target. The computed bitrate caps it.
func (p CodecProfile) CRF() int {
	if p == ProfileVP9Opus {
		return 32
	}
	return 28
}

// ProfileForPath picks the codec profile from the container extension alone.
func ProfileForPath(path string) CodecProfile {
	if strings.EqualFold(filepath.Ext(path), ".webm") {
		return ProfileVP9Opus
	}
	return ProfileH264AAC
}

type MediaProbe struct {
	DurationSeconds float64 `json:"duration_seconds"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
}

func (p MediaProbe) Validate() error {
	if math.IsNaN(p.DurationSeconds) || math.IsInf(p.DurationSeconds, 0) || p.DurationSeconds <= 0 {
		return fmt.Errorf("%w: could not determine duration (got %v)", ErrProbe, p.DurationSeconds)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: could not determine dimensions (got %dx%d)", ErrProbe, p.Width, p.Height)
	}
	return nil
}

type PlanConfig struct {
	TargetSizeMB        float64
	MaxHeight           int
	AudioReserveKbps    int
	MinVideoBitrateKbps int
	AudioBitrateKbps    int
}

func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		TargetSizeMB:        50,
		MaxHeight:           480,
		AudioReserveKbps:    128,
		MinVideoBitrateKbps: 300,
		AudioBitrateKbps:    96,
	}
}

type CompressionPlan struct {
	TargetBitrateKbps int          `json:"target_bitrate_kbps"`
	VideoBitrateKbps  int          `json:"video_bitrate_kbps"`
	AudioBitrateKbps  int          `json:"audio_bitrate_kbps"`
	Width             int          `json:"width"`
	Height            int          `json:"height"`
	Profile           CodecProfile `json:"profile"`
}

func (p CompressionPlan) ScaleFilter() string {
	return fmt.Sprintf("scale=%d:%d", p.Width, p.Height)
}

// BuildPlan derives bitrate, output dimensions and codec profile for one
// compression attempt. The probe must already be valid.
func BuildPlan(sourcePath string, probe MediaProbe, cfg PlanConfig) CompressionPlan {
	raw := math.Floor(cfg.TargetSizeMB * kilobitsPerMegabyte / probe.DurationSeconds)
	target := int(math.Min(raw, maxBitrateKbps)) - cfg.AudioReserveKbps

	width, height := probe.Width, probe.Height
	if cfg.MaxHeight > 0 && height > cfg.MaxHeight {
		ratio := float64(cfg.MaxHeight) / float64(height)
		height = cfg.MaxHeight
		// even dimensions for chroma subsampling
		width = int(math.Floor(float64(probe.Width)*ratio/2)) * 2
	}

	return CompressionPlan{
		TargetBitrateKbps: target,
		VideoBitrateKbps:  max(target, cfg.MinVideoBitrateKbps),
		AudioBitrateKbps:  cfg.AudioBitrateKbps,
		Width:             width,
		Height:            height,
		Profile:           ProfileForPath(sourcePath),
	}
}

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
}

// IsVideoFile reports whether name carries one of the recognized video
// extensions, compared case-insensitively.
func IsVideoFile(name string) bool {
	return videoExts[strings.ToLower(filepath.Ext(name))]
}

// TempFilePrefix marks the sibling file an encode writes to before it is
// promoted over the original or discarded.
const TempFilePrefix = "temp_"

// IsTempArtifact reports whether name is an in-progress encode output.
func IsTempArtifact(name string) bool {
	return strings.HasPrefix(filepath.Base(name), TempFilePrefix)
}

func BytesToMB(bytes int64) float64 {
	return float64(bytes) / oneMegabyte
}
