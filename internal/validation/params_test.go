package validation_test

import (
	"math"
	"testing"

	"github.com/JaimeStill/pdf-lab/internal/faults"
	"github.com/JaimeStill/pdf-lab/internal/validation"
)

func TestRotationAngle(t *testing.T) {
	tests := []struct {
		angle   int
		wantErr bool
	}{
		{90, false},
		{180, false},
		{270, false},
		{0, true},
		{45, true},
		{360, true},
		{-90, true},
	}

	for _, tt := range tests {
		_, err := validation.RotationAngle(tt.angle)
		if (err != nil) != tt.wantErr {
			t.Errorf("RotationAngle(%d) error = %v, wantErr %v", tt.angle, err, tt.wantErr)
		}
		if err != nil && !faults.Is(err, faults.InvalidParameter) {
			t.Errorf("RotationAngle(%d) kind = %v, want InvalidParameter", tt.angle, faults.KindOf(err))
		}
	}
}

func TestOpacity(t *testing.T) {
	tests := []struct {
		value   float64
		wantErr bool
	}{
		{0, false},
		{0.5, false},
		{1, false},
		{-0.01, true},
		{1.01, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		_, err := validation.Opacity(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Opacity(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestCompression(t *testing.T) {
	tests := []struct {
		input   string
		want    validation.CompressionLevel
		wantErr bool
	}{
		{"", validation.CompressionMedium, false},
		{"low", validation.CompressionLow, false},
		{"HIGH", validation.CompressionHigh, false},
		{" medium ", validation.CompressionMedium, false},
		{"extreme", "", true},
	}

	for _, tt := range tests {
		got, err := validation.Compression(tt.input, validation.CompressionMedium)
		if (err != nil) != tt.wantErr {
			t.Errorf("Compression(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Compression(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		allowed []string
		want    string
		wantErr bool
	}{
		{"page number default", "", validation.PageNumberPositions, "bottom-right", false},
		{"page number explicit", "top-left", validation.PageNumberPositions, "top-left", false},
		{"watermark default", "", validation.WatermarkPositions, "center", false},
		{"case folded", "Bottom-Left", validation.PageNumberPositions, "bottom-left", false},
		{"center not a page number position", "center", validation.PageNumberPositions, "", true},
		{"unknown", "middle", validation.WatermarkPositions, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validation.Position(tt.input, tt.allowed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := validation.Password(input)
		if err == nil {
			t.Errorf("Password(%q) expected error", input)
			continue
		}
		if faults.Code(err) != faults.CodeValidation {
			t.Errorf("Password(%q) code = %q, want %q", input, faults.Code(err), faults.CodeValidation)
		}
	}

	got, err := validation.Password(" x ")
	if err != nil {
		t.Fatalf("Password(\" x \") error = %v", err)
	}
	if got != "x" {
		t.Errorf("Password(\" x \") = %q, want %q", got, "x")
	}
}

func TestWatermarkText(t *testing.T) {
	if _, err := validation.WatermarkText("  "); err == nil {
		t.Error("blank watermark should fail")
	}

	long := make([]rune, validation.MaxWatermarkLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := validation.WatermarkText(string(long)); err == nil {
		t.Error("overlong watermark should fail")
	}

	got, err := validation.WatermarkText(" CONFIDENTIAL ")
	if err != nil || got != "CONFIDENTIAL" {
		t.Errorf("WatermarkText = %q, %v", got, err)
	}
}

func TestDPI(t *testing.T) {
	tests := []struct {
		input   int
		want    int
		wantErr bool
	}{
		{0, 150, false},
		{72, 72, false},
		{600, 600, false},
		{71, 0, true},
		{601, 0, true},
	}

	for _, tt := range tests {
		got, err := validation.DPI(tt.input, 150)
		if (err != nil) != tt.wantErr {
			t.Errorf("DPI(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("DPI(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestImageFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "png", false},
		{"PNG", "png", false},
		{"jpeg", "jpg", false},
		{"gif", "", true},
	}

	for _, tt := range tests {
		got, err := validation.ImageFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ImageFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ImageFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
