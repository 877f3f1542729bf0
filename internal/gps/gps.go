// Package gps extracts the GPS position embedded in a photo's EXIF metadata.
//
// Extraction works on the raw file bytes and never requires the pixels to
// decode: metadata parsing and image decoding fail independently. Every
// failure (missing tags, corrupt blocks, malformed rationals) yields an absent
// Coordinate rather than an error, so a broken EXIF block can never abort the
// rest of the request.
//
// Degrees/minutes/seconds are converted with exact rational arithmetic;
// rounding only happens when the value is rendered.
package gps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/ironsheep/photoscan/internal/logger"
)

// Coordinate is a signed decimal-degree position, or absent.
//
// The zero value is absent; (0,0) is never used to mean "no data".
type Coordinate struct {
	// Latitude in decimal degrees, negative south of the equator.
	Latitude float64
	// Longitude in decimal degrees, negative west of Greenwich.
	Longitude float64
	// Valid is false when the image carries no usable GPS position.
	Valid bool

	latRat  *big.Rat
	longRat *big.Rat
}

// Absent returns the explicit "no GPS data" value.
func Absent() Coordinate {
	return Coordinate{}
}

// NewCoordinate builds a valid coordinate from exact decimal degrees.
func NewCoordinate(lat, long *big.Rat) Coordinate {
	latF, _ := lat.Float64()
	longF, _ := long.Float64()
	return Coordinate{
		Latitude:  latF,
		Longitude: longF,
		Valid:     true,
		latRat:    new(big.Rat).Set(lat),
		longRat:   new(big.Rat).Set(long),
	}
}

// LatitudeRat returns the exact latitude, or nil when absent.
func (c Coordinate) LatitudeRat() *big.Rat {
	if !c.Valid || c.latRat == nil {
		return nil
	}
	return new(big.Rat).Set(c.latRat)
}

// LongitudeRat returns the exact longitude, or nil when absent.
func (c Coordinate) LongitudeRat() *big.Rat {
	if !c.Valid || c.longRat == nil {
		return nil
	}
	return new(big.Rat).Set(c.longRat)
}

// String renders the coordinate with six decimal places, or "absent".
func (c Coordinate) String() string {
	if !c.Valid {
		return "absent"
	}
	return fmt.Sprintf("%.6f, %.6f", c.Latitude, c.Longitude)
}

// MarshalJSON encodes an absent coordinate as null.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}{c.Latitude, c.Longitude})
}

var (
	errMissingTag   = errors.New("gps: required tag missing")
	errBadReference = errors.New("gps: invalid hemisphere reference")
	errBadRational  = errors.New("gps: invalid rational component")
	errOutOfRange   = errors.New("gps: coordinate out of range")
)

// Extract returns the GPS position embedded in raw, or Absent.
//
// All four tags (latitude, latitude reference, longitude, longitude
// reference) must be present and well formed; partial coordinates are never
// returned. Extract does not panic and does not return errors.
func Extract(raw []byte) (c Coordinate) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("GPS extraction recovered from panic: %v", r)
			c = Absent()
		}
	}()

	x, err := decodeExif(raw)
	if err != nil {
		logger.Debug("GPS: no usable EXIF block: %v", err)
		return Absent()
	}

	coord, err := fromExif(x)
	if err != nil {
		logger.Debug("GPS: %v", err)
		return Absent()
	}
	return coord
}

// ExtractFile reads path and runs Extract on its contents.
func ExtractFile(path string) (Coordinate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Absent(), fmt.Errorf("failed to read image: %w", err)
	}
	return Extract(raw), nil
}

// decodeExif finds the EXIF block in raw. JPEG APP1, TIFF and bare
// "Exif\0\0" blocks are handled directly; HEIF containers go through the
// container's EXIF item when a HEIF reader is compiled in.
func decodeExif(raw []byte) (*exif.Exif, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty input")
	}

	x, err := exif.Decode(bytes.NewReader(raw))
	if usable(x, err) {
		return x, nil
	}

	block, herr := heifExif(raw)
	if herr != nil {
		if err == nil {
			err = herr
		}
		return nil, err
	}
	return parseExifBlock(block)
}

// parseExifBlock parses an EXIF payload pulled out of a container. The
// payload may or may not start with the "Exif\0\0" header.
func parseExifBlock(block []byte) (*exif.Exif, error) {
	if i := bytes.Index(block, []byte("Exif\x00\x00")); i >= 0 {
		block = block[i:]
	}
	x, err := exif.Decode(bytes.NewReader(block))
	if !usable(x, err) {
		if err == nil {
			err = errors.New("empty EXIF block")
		}
		return nil, err
	}
	return x, nil
}

// usable accepts partially decoded EXIF. A broken sub-IFD only drops its own
// tags, so a damaged GPS directory surfaces later as missing tags.
func usable(x *exif.Exif, err error) bool {
	if x == nil {
		return false
	}
	return err == nil || !exif.IsCriticalError(err)
}

func fromExif(x *exif.Exif) (Coordinate, error) {
	latTag, err := x.Get(exif.GPSLatitude)
	if err != nil {
		return Absent(), fmt.Errorf("%w: latitude", errMissingTag)
	}
	latRefTag, err := x.Get(exif.GPSLatitudeRef)
	if err != nil {
		return Absent(), fmt.Errorf("%w: latitude reference", errMissingTag)
	}
	longTag, err := x.Get(exif.GPSLongitude)
	if err != nil {
		return Absent(), fmt.Errorf("%w: longitude", errMissingTag)
	}
	longRefTag, err := x.Get(exif.GPSLongitudeRef)
	if err != nil {
		return Absent(), fmt.Errorf("%w: longitude reference", errMissingTag)
	}

	lat, err := tagToDecimal(latTag, latRefTag, "N", "S")
	if err != nil {
		return Absent(), fmt.Errorf("latitude: %w", err)
	}
	long, err := tagToDecimal(longTag, longRefTag, "E", "W")
	if err != nil {
		return Absent(), fmt.Errorf("longitude: %w", err)
	}

	if lat.Cmp(big.NewRat(90, 1)) > 0 || lat.Cmp(big.NewRat(-90, 1)) < 0 {
		return Absent(), fmt.Errorf("%w: latitude %s", errOutOfRange, lat.FloatString(6))
	}
	if long.Cmp(big.NewRat(180, 1)) > 0 || long.Cmp(big.NewRat(-180, 1)) < 0 {
		return Absent(), fmt.Errorf("%w: longitude %s", errOutOfRange, long.FloatString(6))
	}

	return NewCoordinate(lat, long), nil
}

func tagToDecimal(valTag, refTag *tiff.Tag, positive, negative string) (*big.Rat, error) {
	ref, err := refTag.StringVal()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadReference, err)
	}
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref != positive && ref != negative {
		return nil, fmt.Errorf("%w: %q", errBadReference, ref)
	}

	if valTag.Count < 3 {
		return nil, fmt.Errorf("%w: want 3 components, got %d", errBadRational, valTag.Count)
	}
	var dms [3]*big.Rat
	for i := range dms {
		num, den, err := valTag.Rat2(i)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRational, err)
		}
		if den == 0 {
			return nil, fmt.Errorf("%w: zero denominator in component %d", errBadRational, i)
		}
		dms[i] = big.NewRat(num, den)
	}

	return ToDecimal(dms[0], dms[1], dms[2], ref)
}

// ToDecimal converts degrees, minutes and seconds to signed decimal degrees:
// d + m/60 + s/3600, negated for the "S" and "W" hemispheres. The arithmetic
// is exact.
func ToDecimal(d, m, s *big.Rat, ref string) (*big.Rat, error) {
	if d == nil || m == nil || s == nil {
		return nil, errBadRational
	}
	if d.Sign() < 0 || m.Sign() < 0 || s.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative component", errBadRational)
	}

	out := new(big.Rat).Set(d)
	out.Add(out, new(big.Rat).Quo(m, big.NewRat(60, 1)))
	out.Add(out, new(big.Rat).Quo(s, big.NewRat(3600, 1)))

	switch strings.ToUpper(strings.TrimSpace(ref)) {
	case "S", "W":
		out.Neg(out)
	}
	return out, nil
}
