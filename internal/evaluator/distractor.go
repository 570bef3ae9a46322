package evaluator

import (
	"math"
	"strconv"
)

// buildAnswerSet turns one final-answer variable into its correct option plus
// the configured number of distractors. Distractors are derived by scaling
// the correct value with the perturbation factors; if those collide (e.g. the
// correct value is 0), additive offsets are used as a fallback. Distinctness
// is checked on the formatted text, so options are guaranteed different at
// the precision the learner actually sees.
func (ev *Evaluator) buildAnswerSet(rv ResolvedVariable) []AnswerOption {
	correct := AnswerOption{
		Text:      FormatValue(rv.Value, rv.DecimalPlaces, rv.Unit),
		Value:     rv.Value,
		IsCorrect: true,
	}

	seen := map[string]bool{correct.Text: true}
	options := []AnswerOption{correct}

	add := func(v float64) bool {
		if rv.DecimalPlaces != nil {
			v = roundTo(v, *rv.DecimalPlaces)
		}
		text := FormatValue(v, rv.DecimalPlaces, rv.Unit)
		if seen[text] {
			return false
		}
		seen[text] = true
		options = append(options, AnswerOption{Text: text, Value: v})
		return true
	}

	for _, f := range ev.cfg.PerturbationFactors {
		if len(options) > ev.cfg.DistractorCount {
			break
		}
		add(rv.Value * f)
	}

	// Additive fallback for values the multiplicative factors cannot spread,
	// such as 0 or values that collapse at display precision.
	delta := math.Max(math.Abs(rv.Value)*0.1, minimumDelta(rv.DecimalPlaces))
	for k := 1; len(options) <= ev.cfg.DistractorCount && k <= 4*ev.cfg.DistractorCount; k++ {
		offset := float64((k+1)/2) * delta
		if k%2 == 1 {
			add(rv.Value + offset)
		} else {
			add(rv.Value - offset)
		}
	}

	return options
}

func minimumDelta(decimalPlaces *int) float64 {
	if decimalPlaces == nil {
		return 1
	}
	return math.Pow(10, -float64(*decimalPlaces))
}

// FormatValue renders a numeric value the way it is shown to the learner:
// fixed decimals when the variable declares them, shortest representation
// otherwise, with the unit appended when present.
func FormatValue(v float64, decimalPlaces *int, unit string) string {
	var s string
	if decimalPlaces != nil && *decimalPlaces >= 0 {
		s = strconv.FormatFloat(v, 'f', *decimalPlaces, 64)
	} else {
		s = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if unit != "" {
		s += " " + unit
	}
	return s
}
