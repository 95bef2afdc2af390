package imaging

import (
	"bytes"
	"encoding/binary"
)

// Dimensions holds sniffed pixel dimensions.
type Dimensions struct {
	Width  int
	Height int
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// SniffDimensions reads width and height out of PNG, JPEG, or WEBP byte
// headers without decoding the image. Returns nil for malformed or
// unrecognized input; callers treat nil as "dimensions unknown" and skip
// dimension-based filtering instead of failing.
func SniffDimensions(data []byte) *Dimensions {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], pngSignature):
		return pngDimensions(data)
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return jpegDimensions(data)
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return webpDimensions(data)
	}
	return nil
}

// pngDimensions reads the IHDR width/height at fixed offsets 16 and 20.
func pngDimensions(data []byte) *Dimensions {
	if len(data) < 24 {
		return nil
	}
	w := int(binary.BigEndian.Uint32(data[16:20]))
	h := int(binary.BigEndian.Uint32(data[20:24]))
	if w <= 0 || h <= 0 {
		return nil
	}
	return &Dimensions{Width: w, Height: h}
}

// jpegDimensions scans marker segments for the first Start-Of-Frame
// marker (0xC0-0xCF excluding 0xC4, 0xC8, 0xCC) and reads the 16-bit
// big-endian dimensions from it.
func jpegDimensions(data []byte) *Dimensions {
	i := 2
	for i+3 < len(data) {
		if data[i] != 0xFF {
			return nil
		}
		marker := data[i+1]
		// Fill bytes before a marker.
		if marker == 0xFF {
			i++
			continue
		}
		// Standalone markers carry no length.
		if marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD7) || marker == 0x01 {
			i += 2
			continue
		}
		if marker == 0xD9 { // EOI
			return nil
		}
		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if segLen < 2 {
			return nil
		}
		if isSOFMarker(marker) {
			// Segment layout: length(2) precision(1) height(2) width(2).
			if i+9 > len(data) {
				return nil
			}
			h := int(binary.BigEndian.Uint16(data[i+5 : i+7]))
			w := int(binary.BigEndian.Uint16(data[i+7 : i+9]))
			if w <= 0 || h <= 0 {
				return nil
			}
			return &Dimensions{Width: w, Height: h}
		}
		i += 2 + segLen
	}
	return nil
}

func isSOFMarker(marker byte) bool {
	if marker < 0xC0 || marker > 0xCF {
		return false
	}
	return marker != 0xC4 && marker != 0xC8 && marker != 0xCC
}

// webpDimensions walks RIFF chunks and decodes whichever of VP8X, VP8,
// or VP8L is present.
func webpDimensions(data []byte) *Dimensions {
	i := 12
	for i+8 <= len(data) {
		fourCC := string(data[i : i+4])
		size := int(binary.LittleEndian.Uint32(data[i+4 : i+8]))
		payload := data[i+8:]
		if size < 0 || size > len(payload) {
			return nil
		}
		payload = payload[:size]

		switch fourCC {
		case "VP8X":
			return vp8xDimensions(payload)
		case "VP8 ":
			return vp8Dimensions(payload)
		case "VP8L":
			return vp8lDimensions(payload)
		}
		// Chunks are padded to even sizes.
		i += 8 + size + (size & 1)
	}
	return nil
}

// vp8xDimensions decodes the extended header: 24-bit little-endian
// canvas width and height, each stored minus one.
func vp8xDimensions(payload []byte) *Dimensions {
	if len(payload) < 10 {
		return nil
	}
	w := int(uint32(payload[4]) | uint32(payload[5])<<8 | uint32(payload[6])<<16)
	h := int(uint32(payload[7]) | uint32(payload[8])<<8 | uint32(payload[9])<<16)
	return &Dimensions{Width: w + 1, Height: h + 1}
}

// vp8Dimensions decodes a lossy key frame: a 3-byte start code then
// 14-bit width and height.
func vp8Dimensions(payload []byte) *Dimensions {
	if len(payload) < 10 {
		return nil
	}
	if payload[3] != 0x9D || payload[4] != 0x01 || payload[5] != 0x2A {
		return nil
	}
	w := int(binary.LittleEndian.Uint16(payload[6:8])) & 0x3FFF
	h := int(binary.LittleEndian.Uint16(payload[8:10])) & 0x3FFF
	if w == 0 || h == 0 {
		return nil
	}
	return &Dimensions{Width: w, Height: h}
}

// vp8lDimensions decodes the lossless header: a signature byte then
// bit-packed 14-bit width-1 and height-1.
func vp8lDimensions(payload []byte) *Dimensions {
	if len(payload) < 5 || payload[0] != 0x2F {
		return nil
	}
	bits := binary.LittleEndian.Uint32(payload[1:5])
	w := int(bits&0x3FFF) + 1
	h := int((bits>>14)&0x3FFF) + 1
	return &Dimensions{Width: w, Height: h}
}
