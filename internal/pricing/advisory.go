package pricing

import "strings"

// MaxUnsupportedSpanM is the widest span a standard frame carries without a
// center reinforcement.
const MaxUnsupportedSpanM = 4.5

// sealantTubes is the suggested number of sealant tubes for tempered covers.
const sealantTubes = 2

// Advise runs the structural and material heuristics for a request. The
// returned warnings and suggestions annotate the result only; they are never
// folded into the cost basis or the sell price. The product text is
// contradictory on whether sealant should be auto-priced; the observed
// behavior is advisory-only and is preserved here.
func Advise(req Request, snap Snapshot, cover *Material) (warnings []string, suggestions []Suggestion) {
	if req.Width > MaxUnsupportedSpanM {
		warnings = append(warnings, "bentang melebihi 4.5 m: rawan lendutan, pertimbangkan tiang tengah")
		suggestions = append(suggestions,
			Suggestion{
				Name:          "Tiang tengah penyangga",
				Quantity:      1,
				EstimatedCost: estimateByCategory(snap.Materials, CategoryFrame),
				Reason:        "anti-sag reinforcement for spans over 4.5 m",
			},
			Suggestion{
				Name:          "Upgrade profil rangka",
				Quantity:      1,
				EstimatedCost: estimateByCategory(snap.Materials, CategoryFrame) * 1.5,
				Reason:        "stiffer frame profile for wide spans",
			},
		)
	}

	if cover != nil && needsSealant(*cover) {
		warnings = append(warnings, "penutup kaca tempered: sealant khusus disarankan")
		suggestions = append(suggestions, Suggestion{
			Name:          "Sealant kaca (tube)",
			Quantity:      sealantTubes,
			EstimatedCost: sealantTubes * estimateByName(snap.Materials, "sealant"),
			Reason:        "tempered glass cover requires sealant",
		})
	}
	return warnings, suggestions
}

// needsSealant honors the explicit flag first and falls back to a name
// heuristic only when the flag is unset.
func needsSealant(m Material) bool {
	if m.RequiresSealant {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), "tempered")
}

func estimateByCategory(mats MaterialSet, cat Category) float64 {
	var best float64
	for _, m := range mats {
		if m.Category != cat {
			continue
		}
		if best == 0 || m.BasePrice < best {
			best = m.BasePrice
		}
	}
	return best
}

func estimateByName(mats MaterialSet, fragment string) float64 {
	var best float64
	for _, m := range mats {
		if !strings.Contains(strings.ToLower(m.Name), fragment) {
			continue
		}
		if best == 0 || m.BasePrice < best {
			best = m.BasePrice
		}
	}
	return best
}
