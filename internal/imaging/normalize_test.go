package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/photoscan/internal/testutil"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	green = color.NRGBA{0, 255, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

func near(got, want color.NRGBA, tol int) bool {
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	return d(got.R, want.R) <= tol && d(got.G, want.G) <= tol && d(got.B, want.B) <= tol
}

// checkQuadrants verifies img shows red, green, blue and white quadrants in
// reading order.
func checkQuadrants(t *testing.T, img *Image, tol int) {
	t.Helper()
	w, h := img.Width(), img.Height()
	points := []struct {
		x, y int
		want color.NRGBA
		name string
	}{
		{w / 4, h / 4, red, "top-left"},
		{3 * w / 4, h / 4, green, "top-right"},
		{w / 4, 3 * h / 4, blue, "bottom-left"},
		{3 * w / 4, 3 * h / 4, white, "bottom-right"},
	}
	for _, p := range points {
		if got := img.At(p.x, p.y); !near(got, p.want, tol) {
			t.Errorf("%s at (%d,%d): got %v, want %v", p.name, p.x, p.y, got, p.want)
		}
	}
}

// stored returns how a camera would have stored upright pixels for a given
// orientation tag: the inverse of the display transform.
func stored(upright *image.NRGBA, o Orientation) *image.NRGBA {
	switch o {
	case OrientationFlipH:
		return imaging.FlipH(upright)
	case OrientationRotate180:
		return imaging.Rotate180(upright)
	case OrientationFlipV:
		return imaging.FlipV(upright)
	case OrientationTranspose:
		return imaging.Transpose(upright)
	case OrientationRotate90CW:
		return imaging.Rotate90(upright)
	case OrientationTransverse:
		return imaging.Transverse(upright)
	case OrientationRotate90CC:
		return imaging.Rotate270(upright)
	}
	return imaging.Clone(upright)
}

func TestNormalize_AllOrientations(t *testing.T) {
	upright := testutil.Quadrants(64, 32)
	loader := NewLoader(Capabilities{})

	for o := OrientationNormal; o <= OrientationRotate90CC; o++ {
		t.Run(o.String(), func(t *testing.T) {
			raw := testutil.JPEGWithEXIF(t, stored(upright, o), testutil.EXIF{Orientation: uint16(o)})

			img, err := loader.Load(raw)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if img.Orientation() != o {
				t.Fatalf("orientation: got %s, want %s", img.Orientation(), o)
			}

			got := Normalize(img)
			if !got.IsCanonical() {
				t.Fatalf("normalized image is not canonical: %s", got)
			}
			if got.Width() != 64 || got.Height() != 32 {
				t.Errorf("dimensions: got %dx%d, want 64x32", got.Width(), got.Height())
			}
			checkQuadrants(t, got, 40)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	src, err := NewImage(stored(testutil.Quadrants(20, 10), OrientationRotate90CW), OrientationRotate90CW)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}

	once := Normalize(src)
	twice := Normalize(once)

	if once.Bounds() != twice.Bounds() {
		t.Fatalf("bounds changed: %v then %v", once.Bounds(), twice.Bounds())
	}
	for i := range once.Pixels().Pix {
		if once.Pixels().Pix[i] != twice.Pixels().Pix[i] {
			t.Fatalf("pixel byte %d changed on second pass", i)
		}
	}
	if twice.Orientation() != OrientationNormal || twice.Mode() != ModeRGB {
		t.Errorf("second pass changed metadata: %s", twice)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	translucent := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := range translucent.Pix {
		translucent.Pix[i] = 0x80
	}
	src, err := NewImage(translucent, OrientationRotate180)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	before := append([]uint8{}, src.Pixels().Pix...)

	_ = Normalize(src)

	for i, b := range src.Pixels().Pix {
		if b != before[i] {
			t.Fatalf("input byte %d modified", i)
		}
	}
	if src.Orientation() != OrientationRotate180 || src.Mode() != ModeRGBA {
		t.Errorf("input metadata modified: %s", src)
	}
}

func TestNormalize_ColorModes(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(0, 0, color.Gray{200})

	pal := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.NRGBA{10, 20, 30, 255}, red})
	pal.SetColorIndex(1, 0, 1)

	alpha := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	alpha.SetNRGBA(0, 0, color.NRGBA{50, 100, 150, 0})

	cmyk := image.NewCMYK(image.Rect(0, 0, 2, 2))
	cmyk.SetCMYK(0, 0, color.CMYK{0, 255, 255, 0})

	tests := []struct {
		name   string
		src    image.Image
		mode   ColorMode
		pixel0 color.NRGBA
	}{
		{"grayscale", gray, ModeL, color.NRGBA{200, 200, 200, 255}},
		{"palette", pal, ModeP, color.NRGBA{10, 20, 30, 255}},
		{"alpha dropped", alpha, ModeRGBA, color.NRGBA{50, 100, 150, 255}},
		{"cmyk", cmyk, ModeCMYK, red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewImage(tt.src, OrientationNormal)
			if err != nil {
				t.Fatalf("NewImage failed: %v", err)
			}
			if src.Mode() != tt.mode {
				t.Errorf("source mode: got %s, want %s", src.Mode(), tt.mode)
			}

			got := Normalize(src)
			if got.Mode() != ModeRGB {
				t.Errorf("mode: got %s, want RGB", got.Mode())
			}
			if p := got.At(0, 0); p != tt.pixel0 {
				t.Errorf("pixel (0,0): got %v, want %v", p, tt.pixel0)
			}
			for i := 3; i < len(got.Pixels().Pix); i += 4 {
				if got.Pixels().Pix[i] != 0xff {
					t.Fatalf("alpha byte %d is %d, want 255", i, got.Pixels().Pix[i])
				}
			}
		})
	}
}

func TestNormalize_Nil(t *testing.T) {
	if Normalize(nil) != nil {
		t.Error("Normalize(nil) should return nil")
	}
}

func TestOrientation_OutOfRange(t *testing.T) {
	for _, v := range []Orientation{0, 9, -1, 255} {
		if got := v.normalized(); got != OrientationNormal {
			t.Errorf("Orientation(%d).normalized() = %s, want identity", v, got)
		}
	}

	// An out-of-range tag in the file is treated as identity.
	raw := testutil.JPEGWithEXIF(t, testutil.Quadrants(16, 16), testutil.EXIF{Orientation: 42})
	img, err := NewLoader(Capabilities{}).Load(raw)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Orientation() != OrientationNormal {
		t.Errorf("orientation: got %s, want identity", img.Orientation())
	}
}

func TestOrientation_SwapsAxes(t *testing.T) {
	for o := OrientationNormal; o <= OrientationRotate90CC; o++ {
		src, err := NewImage(image.NewNRGBA(image.Rect(0, 0, 6, 2)), o)
		if err != nil {
			t.Fatalf("NewImage failed: %v", err)
		}
		got := Normalize(src)
		swapped := got.Width() == 2 && got.Height() == 6
		if swapped != o.SwapsAxes() {
			t.Errorf("%s: got %dx%d, SwapsAxes=%t", o, got.Width(), got.Height(), o.SwapsAxes())
		}
	}
}
