package content

// DeityOptions lists the mantra lineage paths, in display order.
var DeityOptions = []string{
	"SHIVA",
	"HANUMAN",
	"KRISHNA",
	"DEVI",
	"GANESHA",
	"GURU",
	"UNIVERSAL",
}

// BenefitOptions lists every benefit the platform recognizes.
var BenefitOptions = []string{
	"ENERGY",
	"CALM",
	"SLEEP",
	"PROTECTION",
	"HEALING",
	"DEVOTION",
	"CONFIDENCE",
	"FORGIVENESS",
}

// benefitsByDeity constrains which benefits each lineage may be tagged
// with. UNIVERSAL mantras accept the full set.
var benefitsByDeity = map[string][]string{
	"SHIVA":     {"CALM", "SLEEP", "PROTECTION", "HEALING", "DEVOTION"},
	"HANUMAN":   {"ENERGY", "PROTECTION", "CONFIDENCE", "DEVOTION"},
	"KRISHNA":   {"CALM", "DEVOTION", "FORGIVENESS", "SLEEP"},
	"DEVI":      {"PROTECTION", "HEALING", "CONFIDENCE", "ENERGY"},
	"GANESHA":   {"CONFIDENCE", "ENERGY", "PROTECTION", "FORGIVENESS"},
	"GURU":      {"DEVOTION", "HEALING", "CALM"},
	"UNIVERSAL": BenefitOptions,
}

// BenefitOptionsForDeity returns the benefits a mantra of the given deity
// may carry. Unknown deities fall back to the full set so an out-of-catalog
// record is still editable.
func BenefitOptionsForDeity(deity string) []string {
	if opts, ok := benefitsByDeity[deity]; ok {
		return opts
	}
	return BenefitOptions
}

// NormalizeBenefit keeps the deity/benefit invariant: when benefit is not a
// member of the deity's option set it resets to the set's first entry. The
// returned value is always valid for deity.
func NormalizeBenefit(deity, benefit string) string {
	opts := BenefitOptionsForDeity(deity)
	for _, opt := range opts {
		if opt == benefit {
			return benefit
		}
	}
	return opts[0]
}
