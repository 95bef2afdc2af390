package label

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/daye-p/sizepipe/core/normalize"
)

var (
	// Leading unit tokens on measurement labels: "cm 가슴", "inch: chest".
	leadingUnitRe = regexp.MustCompile(`(?i)^(cm|mm|in|inch)\b[.:]?\s*`)

	alphaSizeRe = regexp.MustCompile(`(?i)^(XXXL|XXL|XXS|XS|S|M|L|XL|[2-4]XL|2XS|F|FREE|ONE ?SIZE|OS)(\s*[(\[][^)\]]*[)\]])?$`)
	numericRe   = regexp.MustCompile(`^\d{1,3}(\.\d+)?$`)
	// Numeric size with a parenthetical descriptor: "95(M)".
	numericAnnotatedRe = regexp.MustCompile(`^(\d{1,3})\s*[(\[][^)\]]*[)\]]$`)
	regionSizeRe       = regexp.MustCompile(`(?i)^(EU|US|UK|FR|IT|JP|KR)\s?\d{1,3}$`)
	waistInseamRe      = regexp.MustCompile(`(?i)^W\d{2,3}(\s?/\s?L\d{2,3})?$`)
	mixedSizeRe        = regexp.MustCompile(`(?i)^(XXXL|XXL|XXS|XS|S|M|L|XL)\s?-\s?\d{2,3}$`)

	// Vocabulary that hints at a measurement even when the alias map does
	// not know the exact label. Used only by the loose predicate.
	measurementHintRe = regexp.MustCompile(`단면|둘레|길이|기장|너비|넓이|폭|높이|총장|어깨|가슴|소매|허리|허벅지|밑위|밑단|암홀|엉덩이|shoulder|chest|bust|sleeve|waist|hip|thigh|rise|hem|armhole|length|width|girth`)

	// Descriptor noise stripped when comparing size labels against page
	// options: "M(95)", "95(M)", "M SIZE".
	sizeDescriptorRe = regexp.MustCompile(`(?i)\s*[(\[][^)\]]*[)\]]\s*|\s+SIZE$`)
)

// NormalizeMeasurement canonicalizes a raw measurement label. Resolution
// order: total-length aliases (exact, then containment), the general alias
// map, English substring inference, then the sanitized raw text unchanged.
func NormalizeMeasurement(raw string) string {
	cell := normalize.Cell(leadingUnitRe.ReplaceAllString(normalize.Cell(raw), ""))
	key := normalize.AliasKey(cell)
	if key == "" {
		return cell
	}
	if isTotalLength(key) {
		return TotalLength
	}
	if canon, ok := measurementAliases[key]; ok {
		return canon
	}
	for _, rule := range englishInference {
		if strings.Contains(key, rule.substr) {
			return rule.canon
		}
	}
	return cell
}

// IsSizeLabel reports whether v names a garment size: alpha sizes
// (optionally annotated, "M(95)"), plain numerics 0-400, region-prefixed
// sizes ("EU 40"), waist/inseam combos ("W30/L32"), and alpha-numeric
// combos ("M-95"). Precision matters more than recall here; false
// positives corrupt orientation decisions.
func IsSizeLabel(v string) bool {
	s := normalize.Cell(v)
	if s == "" {
		return false
	}
	if alphaSizeRe.MatchString(s) || regionSizeRe.MatchString(s) ||
		waistInseamRe.MatchString(s) || mixedSizeRe.MatchString(s) {
		return true
	}
	if numericRe.MatchString(s) {
		return numericInSizeRange(s)
	}
	if m := numericAnnotatedRe.FindStringSubmatch(s); m != nil {
		return numericInSizeRange(m[1])
	}
	return false
}

// IsMeasurementLabel reports whether v resolves through the alias map to a
// canonical measurement. Strict: use for final label checks.
func IsMeasurementLabel(v string) bool {
	key := normalize.AliasKey(v)
	if key == "" {
		return false
	}
	if isTotalLength(key) {
		return true
	}
	_, ok := measurementAliases[key]
	return ok
}

func isTotalLength(key string) bool {
	if totalLengthAliases[key] {
		return true
	}
	for _, alias := range totalLengthContained {
		if strings.Contains(key, alias) {
			return true
		}
	}
	return false
}

// IsMeasurementLabelLoose additionally accepts anything matching the
// measurement vocabulary pattern. Use for orientation scoring, which must
// tolerate labels the alias map does not yet know.
func IsMeasurementLabelLoose(v string) bool {
	if IsMeasurementLabel(v) {
		return true
	}
	return measurementHintRe.MatchString(strings.ToLower(normalize.Cell(v)))
}

// ComparableSizeLabel reduces a size label to its bare token for
// comparison against a page's size options: "M(95)" and "m size" both
// become "M".
func ComparableSizeLabel(v string) string {
	s := strings.ToUpper(normalize.Cell(v))
	s = sizeDescriptorRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func numericInSizeRange(s string) bool {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return n >= 0 && n <= 400
}
