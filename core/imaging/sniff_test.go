package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(width, height uint32) []byte {
	data := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	data = append(data, 0x00, 0x00, 0x00, 0x0D) // IHDR length
	data = append(data, 'I', 'H', 'D', 'R')
	data = append(data,
		byte(width>>24), byte(width>>16), byte(width>>8), byte(width),
		byte(height>>24), byte(height>>16), byte(height>>8), byte(height),
	)
	return append(data, 0x08, 0x06, 0x00, 0x00, 0x00)
}

func jpegFixture(width, height uint16) []byte {
	data := []byte{0xFF, 0xD8}
	// APP0 segment before the frame header.
	data = append(data, 0xFF, 0xE0, 0x00, 0x04, 0x00, 0x00)
	// SOF0: length, precision, height, width, components.
	data = append(data, 0xFF, 0xC0, 0x00, 0x11, 0x08,
		byte(height>>8), byte(height), byte(width>>8), byte(width), 0x03)
	return data
}

func webpLosslessFixture(width, height int) []byte {
	bits := uint32(width-1) | uint32(height-1)<<14
	payload := []byte{0x2F, byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
	data := []byte("RIFF")
	data = append(data, 0x11, 0x00, 0x00, 0x00)
	data = append(data, []byte("WEBP")...)
	data = append(data, []byte("VP8L")...)
	data = append(data, byte(len(payload)), 0x00, 0x00, 0x00)
	return append(data, payload...)
}

func webpExtendedFixture(width, height int) []byte {
	w, h := uint32(width-1), uint32(height-1)
	payload := []byte{
		0x10, 0x00, 0x00, 0x00,
		byte(w), byte(w >> 8), byte(w >> 16),
		byte(h), byte(h >> 8), byte(h >> 16),
	}
	data := []byte("RIFF")
	data = append(data, 0x16, 0x00, 0x00, 0x00)
	data = append(data, []byte("WEBP")...)
	data = append(data, []byte("VP8X")...)
	data = append(data, byte(len(payload)), 0x00, 0x00, 0x00)
	return append(data, payload...)
}

func TestSniffDimensionsPNG(t *testing.T) {
	dims := SniffDimensions(pngFixture(300, 200))
	require.NotNil(t, dims)
	assert.Equal(t, 300, dims.Width)
	assert.Equal(t, 200, dims.Height)
}

func TestSniffDimensionsJPEG(t *testing.T) {
	dims := SniffDimensions(jpegFixture(1024, 768))
	require.NotNil(t, dims)
	assert.Equal(t, 1024, dims.Width)
	assert.Equal(t, 768, dims.Height)
}

func TestSniffDimensionsWEBP(t *testing.T) {
	dims := SniffDimensions(webpLosslessFixture(640, 480))
	require.NotNil(t, dims)
	assert.Equal(t, 640, dims.Width)
	assert.Equal(t, 480, dims.Height)

	dims = SniffDimensions(webpExtendedFixture(1200, 900))
	require.NotNil(t, dims)
	assert.Equal(t, 1200, dims.Width)
	assert.Equal(t, 900, dims.Height)
}

func TestSniffDimensionsMalformed(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		[]byte("not an image"),
		pngFixture(300, 200)[:12],          // truncated before IHDR
		{0xFF, 0xD8, 0x00, 0x00},           // JPEG with bad marker byte
		[]byte("RIFF\x04\x00\x00\x00WAVE"), // RIFF but not WEBP
		append([]byte("RIFF\x10\x00\x00\x00WEBP"), []byte("XXXX\x00\x00\x00\x00")...),
	}
	for i, in := range inputs {
		assert.Nil(t, SniffDimensions(in), "input %d", i)
	}
}
