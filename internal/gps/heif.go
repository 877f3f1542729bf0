package gps

import (
	"bytes"
	"errors"

	"github.com/jdeng/goheif/heif"
)

var errNotHEIF = errors.New("not an ISO-BMFF container")

// heifExif pulls the EXIF item out of a HEIF container. The container parser
// is pure Go and works whether or not any HEIC pixel codec is compiled in.
func heifExif(raw []byte) ([]byte, error) {
	if len(raw) < 12 || string(raw[4:8]) != "ftyp" {
		return nil, errNotHEIF
	}
	return heif.Open(bytes.NewReader(raw)).EXIF()
}
