package validation

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/pdf-lab/internal/faults"
)

// CompressionLevel selects how aggressively a document is optimized.
type CompressionLevel string

// Compression levels.
const (
	CompressionLow    CompressionLevel = "low"
	CompressionMedium CompressionLevel = "medium"
	CompressionHigh   CompressionLevel = "high"
)

// Positions accepted for page numbers. The first entry is the default.
var PageNumberPositions = []string{
	"bottom-right",
	"bottom-left",
	"bottom-center",
	"top-right",
	"top-left",
	"top-center",
}

// Positions accepted for watermarks. The first entry is the default.
var WatermarkPositions = []string{
	"center",
	"top-left",
	"top-center",
	"top-right",
	"bottom-left",
	"bottom-center",
	"bottom-right",
}

// MaxWatermarkLength bounds the watermark text in characters.
const MaxWatermarkLength = 200

// Render DPI bounds.
const (
	MinDPI = 72
	MaxDPI = 600
)

var rotationAngles = []int{90, 180, 270}

// RotationAngle accepts 90, 180 or 270.
func RotationAngle(angle int) (int, error) {
	if !slices.Contains(rotationAngles, angle) {
		return 0, faults.Newf(faults.InvalidParameter,
			"invalid rotation angle %d: must be 90, 180, or 270", angle,
		).WithDetail("angle", angle)
	}
	return angle, nil
}

// Opacity accepts values in [0, 1].
func Opacity(opacity float64) (float64, error) {
	if math.IsNaN(opacity) || opacity < 0 || opacity > 1 {
		return 0, faults.Newf(faults.InvalidParameter,
			"invalid opacity %g: must be between 0.0 and 1.0", opacity,
		)
	}
	return opacity, nil
}

// Compression accepts low, medium or high. An empty level resolves to fallback.
func Compression(level string, fallback CompressionLevel) (CompressionLevel, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return fallback, nil
	}

	switch l := CompressionLevel(level); l {
	case CompressionLow, CompressionMedium, CompressionHigh:
		return l, nil
	default:
		return "", faults.Newf(faults.InvalidParameter,
			"invalid compression level %q: must be low, medium, or high", level,
		)
	}
}

// Position accepts a member of allowed. An empty value resolves to the first
// allowed entry.
func Position(position string, allowed []string) (string, error) {
	position = strings.ToLower(strings.TrimSpace(position))
	if position == "" && len(allowed) > 0 {
		return allowed[0], nil
	}

	if !slices.Contains(allowed, position) {
		return "", faults.Newf(faults.InvalidParameter,
			"invalid position %q: must be one of %s", position, strings.Join(allowed, ", "),
		)
	}
	return position, nil
}

// Password trims surrounding whitespace and rejects empty passwords.
func Password(password string) (string, error) {
	trimmed := strings.TrimSpace(password)
	if trimmed == "" {
		return "", faults.New(faults.PasswordInvalid, "password cannot be empty")
	}
	return trimmed, nil
}

// WatermarkText trims the text and rejects empty or overlong values.
func WatermarkText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", faults.New(faults.InvalidParameter, "watermark text cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxWatermarkLength {
		return "", faults.Newf(faults.InvalidParameter,
			"watermark text exceeds %d characters", MaxWatermarkLength,
		)
	}
	return trimmed, nil
}

// DPI accepts a render resolution in [MinDPI, MaxDPI]. Zero resolves to fallback.
func DPI(dpi, fallback int) (int, error) {
	if dpi == 0 {
		return fallback, nil
	}
	if dpi < MinDPI || dpi > MaxDPI {
		return 0, faults.Newf(faults.InvalidParameter,
			"invalid dpi %d: must be between %d and %d", dpi, MinDPI, MaxDPI,
		)
	}
	return dpi, nil
}

// ImageFormat accepts png or jpg (jpeg is normalized to jpg). Empty resolves to png.
func ImageFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "png":
		return "png", nil
	case "jpg", "jpeg":
		return "jpg", nil
	default:
		return "", faults.Newf(faults.InvalidParameter,
			"invalid image format %q: must be png or jpg", format,
		)
	}
}
