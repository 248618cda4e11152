package content

import "testing"

func TestBenefitOptionsForDeity(t *testing.T) {
	t.Run("known deity gets its subset", func(t *testing.T) {
		opts := BenefitOptionsForDeity("GURU")
		want := []string{"DEVOTION", "HEALING", "CALM"}
		if len(opts) != len(want) {
			t.Fatalf("got %d options, want %d", len(opts), len(want))
		}
		for i, opt := range opts {
			if opt != want[i] {
				t.Errorf("option[%d] = %q, want %q", i, opt, want[i])
			}
		}
	})

	t.Run("universal gets everything", func(t *testing.T) {
		opts := BenefitOptionsForDeity("UNIVERSAL")
		if len(opts) != len(BenefitOptions) {
			t.Errorf("got %d options, want the full set of %d", len(opts), len(BenefitOptions))
		}
	})

	t.Run("unknown deity falls back to full set", func(t *testing.T) {
		opts := BenefitOptionsForDeity("UNHEARD_OF")
		if len(opts) != len(BenefitOptions) {
			t.Errorf("got %d options, want the full set of %d", len(opts), len(BenefitOptions))
		}
	})
}

func TestNormalizeBenefit(t *testing.T) {
	t.Run("member benefit kept", func(t *testing.T) {
		if got := NormalizeBenefit("SHIVA", "SLEEP"); got != "SLEEP" {
			t.Errorf("got %q, want SLEEP", got)
		}
	})

	t.Run("non-member resets to first option", func(t *testing.T) {
		// ENERGY is not available for SHIVA
		if got := NormalizeBenefit("SHIVA", "ENERGY"); got != "CALM" {
			t.Errorf("got %q, want CALM (first SHIVA option)", got)
		}
	})

	t.Run("deity change keeps result valid", func(t *testing.T) {
		// For every deity and every benefit, the normalized value must be
		// a member of the deity's option set.
		for _, deity := range DeityOptions {
			for _, benefit := range BenefitOptions {
				normalized := NormalizeBenefit(deity, benefit)
				opts := BenefitOptionsForDeity(deity)
				found := false
				for _, opt := range opts {
					if opt == normalized {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("NormalizeBenefit(%s, %s) = %s, not in option set", deity, benefit, normalized)
				}
			}
		}
	})
}
