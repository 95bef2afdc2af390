// Package label classifies size-chart vocabulary: which strings name a
// garment size (M, 95, EU 40) and which name a measurement (chest,
// shoulder, total length), across the Korean and English surface forms
// that appear on real product pages.
package label

// Canonical measurement labels. Keys into measurementAliases resolve to
// one of these; tables always display the canonical (Korean) form.
const (
	TotalLength = "총장" // total garment length
	Shoulder    = "어깨"
	Chest       = "가슴"
	Sleeve      = "소매"
	Waist       = "허리"
	Hip         = "엉덩이"
	Thigh       = "허벅지"
	Rise        = "밑위"
	Hem         = "밑단"
	Armhole     = "암홀"
)

// ItemLabel is the canonical first-column header of a standardized table.
const ItemLabel = "항목"

// totalLengthAliases is checked before the general map. Deliberately
// loose: real-world total length labels vary more than any other
// measurement.
var totalLengthAliases = map[string]bool{
	"총장":          true,
	"총기장":         true,
	"기장":          true,
	"총길이":         true,
	"전체길이":        true,
	"전장":          true,
	"옷길이":         true,
	"length":      true,
	"totallength": true,
	"fulllength":  true,
}

// totalLengthContained are the aliases also matched by substring
// containment. Bare "기장" and "length" stay exact-only; they occur inside
// other measurement names ("소매기장", "sleeve length").
var totalLengthContained = []string{
	"총장", "총기장", "총길이", "전체길이", "옷길이", "totallength", "fulllength",
}

// measurementAliases maps alias keys (see normalize.AliasKey) to canonical
// labels. Every canonical label maps to itself so resolution is idempotent.
var measurementAliases = map[string]string{
	// shoulder
	Shoulder: Shoulder,
	"어깨너비":     Shoulder,
	"어깨폭":      Shoulder,
	"어깨단면":     Shoulder,
	"어깨넓이":     Shoulder,
	"shoulder":  Shoulder,
	"shoulders": Shoulder,

	// chest
	Chest:   Chest,
	"가슴단면":  Chest,
	"가슴둘레":  Chest,
	"가슴폭":   Chest,
	"가슴너비":  Chest,
	"흉위":    Chest,
	"chest": Chest,
	"bust":  Chest,

	// sleeve
	Sleeve:   Sleeve,
	"소매길이":   Sleeve,
	"소매기장":   Sleeve,
	"팔길이":    Sleeve,
	"팔기장":    Sleeve,
	"sleeve": Sleeve,
	"arm":    Sleeve,

	// waist
	Waist:   Waist,
	"허리단면":  Waist,
	"허리둘레":  Waist,
	"허리폭":   Waist,
	"waist": Waist,

	// hip
	Hip:    Hip,
	"힙":    Hip,
	"힙단면":  Hip,
	"힙둘레":  Hip,
	"엉덩이단면": Hip,
	"엉덩이둘레": Hip,
	"hip":  Hip,
	"hips": Hip,

	// thigh
	Thigh:    Thigh,
	"허벅지단면":  Thigh,
	"허벅지둘레":  Thigh,
	"thigh":  Thigh,
	"thighs": Thigh,

	// rise
	Rise:   Rise,
	"밑위길이": Rise,
	"rise": Rise,

	// hem
	Hem:       Hem,
	"밑단단면":    Hem,
	"밑단둘레":    Hem,
	"hem":     Hem,
	"bottomhem": Hem,

	// armhole
	Armhole:   Armhole,
	"암홀단면":    Armhole,
	"armhole": Armhole,
}

// englishInference is a last-resort substring match on the alias key,
// for English labels the alias map does not spell out ("Shoulder width
// (flat)"). Checked in order; first hit wins.
var englishInference = []struct {
	substr string
	canon  string
}{
	{"shoulder", Shoulder},
	{"chest", Chest},
	{"bust", Chest},
	{"sleeve", Sleeve},
	{"waist", Waist},
	{"hip", Hip},
	{"thigh", Thigh},
	{"armhole", Armhole},
	{"rise", Rise},
	{"hem", Hem},
}
