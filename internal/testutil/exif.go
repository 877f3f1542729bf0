// Package testutil builds in-memory image fixtures for tests: JPEGs carrying
// an EXIF APP1 segment with orientation and GPS tags, and small patterned
// images whose orientation can be checked pixel by pixel.
package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// TIFF field types used by the fixtures.
const (
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
)

// EXIF tag numbers used by the fixtures.
const (
	tagOrientation    = 0x0112
	tagGPSPointer     = 0x8825
	tagGPSLatRef      = 0x0001
	tagGPSLat         = 0x0002
	tagGPSLongRef     = 0x0003
	tagGPSLong        = 0x0004
	tiffHeaderSize    = 8
	ifdEntrySize      = 12
	ifdCountFieldSize = 2
	ifdNextFieldSize  = 4
)

// Rational is an EXIF RATIONAL value.
type Rational struct {
	Num, Den uint32
}

// DMS builds a degrees/minutes/seconds triple with whole-number components.
func DMS(d, m, s uint32) [3]Rational {
	return [3]Rational{{d, 1}, {m, 1}, {s, 1}}
}

// GPS describes the GPS tags to embed. Empty references or nil coordinates
// leave the corresponding tag out, which is how tests exercise missing tags.
type GPS struct {
	LatRef  string
	Lat     *[3]Rational
	LongRef string
	Long    *[3]Rational
}

// EXIF describes the metadata to embed.
type EXIF struct {
	// Orientation is the EXIF orientation tag (1-8). Zero omits the tag.
	Orientation uint16
	// GPS is embedded as a GPS sub-IFD when non-nil.
	GPS *GPS
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

// TIFF returns a little-endian TIFF structure holding the metadata, as found
// after the "Exif\0\0" header of a JPEG APP1 segment.
func (e EXIF) TIFF() []byte {
	le := binary.LittleEndian

	var ifd0 []ifdEntry
	if e.Orientation != 0 {
		v := make([]byte, 2)
		le.PutUint16(v, e.Orientation)
		ifd0 = append(ifd0, ifdEntry{tagOrientation, typeShort, 1, v})
	}

	var gps []ifdEntry
	if e.GPS != nil {
		if e.GPS.LatRef != "" {
			gps = append(gps, asciiEntry(tagGPSLatRef, e.GPS.LatRef))
		}
		if e.GPS.Lat != nil {
			gps = append(gps, rationalEntry(tagGPSLat, *e.GPS.Lat))
		}
		if e.GPS.LongRef != "" {
			gps = append(gps, asciiEntry(tagGPSLongRef, e.GPS.LongRef))
		}
		if e.GPS.Long != nil {
			gps = append(gps, rationalEntry(tagGPSLong, *e.GPS.Long))
		}
	}

	hasGPS := e.GPS != nil
	if hasGPS {
		// Placeholder; the offset is patched in below once IFD0's size is known.
		ifd0 = append(ifd0, ifdEntry{tagGPSPointer, typeLong, 1, make([]byte, 4)})
	}

	ifd0Offset := uint32(tiffHeaderSize)
	gpsOffset := ifd0Offset + ifdSize(ifd0)
	if hasGPS {
		le.PutUint32(ifd0[len(ifd0)-1].data, gpsOffset)
	}

	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, le, uint16(42))
	binary.Write(&buf, le, ifd0Offset)
	buf.Write(serializeIFD(ifd0Offset, ifd0))
	if hasGPS {
		buf.Write(serializeIFD(gpsOffset, gps))
	}
	return buf.Bytes()
}

// APP1 returns the complete JPEG APP1 segment (marker, length, Exif header, TIFF).
func (e EXIF) APP1() []byte {
	payload := append([]byte("Exif\x00\x00"), e.TIFF()...)
	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...)
}

// InsertAPP1 splices the EXIF segment into a baseline JPEG right after SOI.
func (e EXIF) InsertAPP1(jpg []byte) []byte {
	out := make([]byte, 0, len(jpg)+256)
	out = append(out, jpg[:2]...)
	out = append(out, e.APP1()...)
	return append(out, jpg[2:]...)
}

func asciiEntry(tag uint16, s string) ifdEntry {
	data := append([]byte(s), 0)
	return ifdEntry{tag, typeASCII, uint32(len(data)), data}
}

func rationalEntry(tag uint16, vals [3]Rational) ifdEntry {
	data := make([]byte, 0, 24)
	for _, v := range vals {
		data = binary.LittleEndian.AppendUint32(data, v.Num)
		data = binary.LittleEndian.AppendUint32(data, v.Den)
	}
	return ifdEntry{tag, typeRational, 3, data}
}

func ifdSize(entries []ifdEntry) uint32 {
	size := uint32(ifdCountFieldSize + ifdEntrySize*len(entries) + ifdNextFieldSize)
	for _, e := range entries {
		if len(e.data) > 4 {
			size += uint32(padded(len(e.data)))
		}
	}
	return size
}

func padded(n int) int {
	return n + n%2
}

func serializeIFD(offset uint32, entries []ifdEntry) []byte {
	le := binary.LittleEndian
	dataOffset := offset + uint32(ifdCountFieldSize+ifdEntrySize*len(entries)+ifdNextFieldSize)

	var head, ext bytes.Buffer
	binary.Write(&head, le, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&head, le, e.tag)
		binary.Write(&head, le, e.typ)
		binary.Write(&head, le, e.count)
		if len(e.data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.data)
			head.Write(inline)
			continue
		}
		binary.Write(&head, le, dataOffset)
		ext.Write(e.data)
		if len(e.data)%2 == 1 {
			ext.WriteByte(0)
		}
		dataOffset += uint32(padded(len(e.data)))
	}
	binary.Write(&head, le, uint32(0))
	return append(head.Bytes(), ext.Bytes()...)
}

// Quadrants returns a w x h image split into four solid quadrants:
// red top-left, green top-right, blue bottom-left, white bottom-right.
func Quadrants(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var c color.NRGBA
			switch {
			case x < w/2 && y < h/2:
				c = color.NRGBA{255, 0, 0, 255}
			case x >= w/2 && y < h/2:
				c = color.NRGBA{0, 255, 0, 255}
			case x < w/2 && y >= h/2:
				c = color.NRGBA{0, 0, 255, 255}
			default:
				c = color.NRGBA{255, 255, 255, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// EncodeJPEG encodes img at high quality.
func EncodeJPEG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// EncodePNG encodes img losslessly.
func EncodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// JPEGWithEXIF encodes img as JPEG and embeds e.
func JPEGWithEXIF(t testing.TB, img image.Image, e EXIF) []byte {
	t.Helper()
	return e.InsertAPP1(EncodeJPEG(t, img))
}
