package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/photoscan/internal/testutil"
)

var testInfo = BuildInfo{Version: "1.0.0-test", BuildTime: "today", GitCommit: "abc123"}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand(testInfo)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writePhoto(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write photo: %v", err)
	}
	return path
}

func gpsJPEG(t *testing.T) []byte {
	return testutil.JPEGWithEXIF(t, testutil.Quadrants(16, 16), testutil.EXIF{
		GPS: &testutil.GPS{
			LatRef:  "N",
			Lat:     &[3]testutil.Rational{{Num: 48, Den: 1}, {Num: 51, Den: 1}, {Num: 29, Den: 1}},
			LongRef: "W",
			Long:    &[3]testutil.Rational{{Num: 2, Den: 1}, {Num: 17, Den: 1}, {Num: 40, Den: 1}},
		},
	})
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	for _, want := range []string{"photoscan 1.0.0-test", "Build time: today", "Git commit: abc123"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}

func TestGPSCommand(t *testing.T) {
	withGPS := writePhoto(t, "paris.jpg", gpsJPEG(t))
	without := writePhoto(t, "plain.png", testutil.EncodePNG(t, testutil.Quadrants(8, 8)))

	out, _, err := run(t, "gps", withGPS, without)
	if err != nil {
		t.Fatalf("gps failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	if lines[0] != withGPS+"\t48.858056, -2.294444" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != without+"\tabsent" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestGPSCommand_MissingFile(t *testing.T) {
	_, stderr, err := run(t, "gps", "/nonexistent/photo.jpg")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !strings.Contains(stderr, "/nonexistent/photo.jpg") {
		t.Errorf("stderr should name the file: %q", stderr)
	}
}

func TestInspectCommand(t *testing.T) {
	path := writePhoto(t, "paris.jpg", gpsJPEG(t))

	out, _, err := run(t, "inspect", "--no-image", path)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	var got struct {
		Path   string `json:"path"`
		Result struct {
			GPS *struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"gps"`
			ImageB64  string `json:"img_base64"`
			ImageMIME string `json:"img_mime"`
			Decoded   bool   `json:"decoded"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Path != path {
		t.Errorf("path = %q", got.Path)
	}
	if got.Result.GPS == nil || got.Result.GPS.Longitude >= 0 {
		t.Errorf("gps = %+v", got.Result.GPS)
	}
	if !got.Result.Decoded || got.Result.ImageMIME != "image/jpeg" {
		t.Errorf("decoded = %t, mime = %q", got.Result.Decoded, got.Result.ImageMIME)
	}
	if got.Result.ImageB64 != "" {
		t.Error("--no-image should drop img_base64")
	}
}

func TestInspectCommand_MissingFile(t *testing.T) {
	out, _, err := run(t, "inspect", "/nonexistent/photo.jpg")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !strings.Contains(out, `"error"`) {
		t.Errorf("output should report the failure: %s", out)
	}
}

func TestCapabilitiesCommand(t *testing.T) {
	t.Setenv("PHOTOSCAN_HEIC_MODERN", "false")
	t.Setenv("PHOTOSCAN_HEIC_LEGACY", "false")

	out, _, err := run(t, "capabilities")
	if err != nil {
		t.Fatalf("capabilities failed: %v", err)
	}

	var got struct {
		Version string `json:"version"`
		Enabled struct {
			Modern bool `json:"modern_heic"`
			Legacy bool `json:"legacy_heic"`
		} `json:"enabled"`
		Strategies []string `json:"strategies"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Version != testInfo.Version {
		t.Errorf("version = %q", got.Version)
	}
	if got.Enabled.Modern || got.Enabled.Legacy {
		t.Errorf("codecs disabled by env should not be enabled: %+v", got.Enabled)
	}
	if len(got.Strategies) != 1 || got.Strategies[0] != "primary" {
		t.Errorf("strategies = %v", got.Strategies)
	}
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("PHOTOSCAN_DISPLAY_FORMAT", "gif")

	if _, _, err := run(t, "gps", writePhoto(t, "x.jpg", gpsJPEG(t))); err == nil {
		t.Error("an invalid display format should fail before the command runs")
	}
}

func TestMissingConfigFile(t *testing.T) {
	if _, _, err := run(t, "--config", "/nonexistent/photoscan.yaml", "capabilities"); err == nil {
		t.Error("a missing config file should be an error")
	}
}

func TestArgs(t *testing.T) {
	tests := [][]string{
		{"inspect"},
		{"gps"},
		{"capabilities", "extra"},
		{"serve", "extra"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if _, _, err := run(t, args...); err == nil {
				t.Error("expected an argument error")
			}
		})
	}
}
