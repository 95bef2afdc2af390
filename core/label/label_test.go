package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMeasurementTotalLengthAliases(t *testing.T) {
	for _, in := range []string{"총장", "Length", "전체길이", "기장", "총기장", "cm 총길이", "옷길이(cm)"} {
		assert.Equal(t, TotalLength, NormalizeMeasurement(in), "NormalizeMeasurement(%q)", in)
	}
}

func TestNormalizeMeasurementAliasMap(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"어깨너비", Shoulder},
		{"가슴(단면)", Chest},
		{"Chest", Chest},
		{"소매기장", Sleeve},
		{"허리 둘레", Waist},
		{"힙단면", Hip},
		{"cm 밑위", Rise},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMeasurement(tt.in), "NormalizeMeasurement(%q)", tt.in)
	}
}

func TestNormalizeMeasurementEnglishInference(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Shoulder width (flat)", Shoulder},
		{"Bust circumference", Chest},
		{"Sleeve length", Sleeve},
		{"Low rise", Rise},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMeasurement(tt.in), "NormalizeMeasurement(%q)", tt.in)
	}
}

func TestNormalizeMeasurementFallsBackToSanitizedRaw(t *testing.T) {
	assert.Equal(t, "밑아대", NormalizeMeasurement("  밑아대  "))
	assert.Equal(t, "fit", NormalizeMeasurement("fit"))
}

func TestIsSizeLabel(t *testing.T) {
	accept := []string{
		"S", "m", "XL", "XXXL", "FREE", "ONE SIZE", "one size",
		"95", "110", "400", "0", "28.5",
		"M(95)", "FREE(44-66)", "95(M)",
		"EU 40", "US8", "JP 25",
		"W30/L32", "W32", "M-95", "L - 100",
	}
	for _, in := range accept {
		assert.True(t, IsSizeLabel(in), "IsSizeLabel(%q)", in)
	}

	reject := []string{
		"", "가슴", "shoulder", "401", "9999", "size guide",
		"상세정보", "ABCDE", "W3", "M95100",
	}
	for _, in := range reject {
		assert.False(t, IsSizeLabel(in), "IsSizeLabel(%q)", in)
	}
}

func TestMeasurementPredicates(t *testing.T) {
	// Strict resolves only through the alias map.
	assert.True(t, IsMeasurementLabel("가슴단면"))
	assert.True(t, IsMeasurementLabel("Length"))
	assert.False(t, IsMeasurementLabel("소매통"))

	// Loose additionally accepts vocabulary hints.
	assert.True(t, IsMeasurementLabelLoose("소매통"))
	assert.True(t, IsMeasurementLabelLoose("밑단 단면"))
	assert.False(t, IsMeasurementLabelLoose("배송정보"))
	assert.False(t, IsMeasurementLabelLoose("95"))
}

func TestComparableSizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"M(95)", "M"},
		{"95(M)", "95"},
		{"m size", "M"},
		{"  FREE ", "FREE"},
		{"EU 40", "EU 40"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ComparableSizeLabel(tt.in), "ComparableSizeLabel(%q)", tt.in)
	}
}
