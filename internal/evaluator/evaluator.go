package evaluator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// VariableDefinition is one authored variable of a dynamic question, in
// declaration order.
type VariableDefinition struct {
	Name          string
	Unit          string
	Default       *float64
	Min           *float64
	Max           *float64
	Step          *float64
	DecimalPlaces *int
	Randomize     bool
	IsFinalAnswer bool
}

// MethodDefinition is one derivation step of the form "lhs = rhs".
type MethodDefinition struct {
	Expr string
}

// ResolvedVariable is a variable after sampling and method evaluation.
type ResolvedVariable struct {
	Name          string
	Value         float64
	Unit          string
	DecimalPlaces *int
	IsFinalAnswer bool
}

// AnswerOption is one materialized answer choice: the correct value of a
// final-answer variable, or a distractor perturbed from it.
type AnswerOption struct {
	Text      string
	Value     float64
	IsCorrect bool
}

// Result is the output of one evaluation pass.
type Result struct {
	Variables []ResolvedVariable
	Answers   []AnswerOption
}

// EvaluationError reports a failed derivation method with enough detail to
// surface to the author: the zero-based method index, the raw expression, and
// the expression after variable substitution.
type EvaluationError struct {
	MethodIndex int
	Raw         string
	Substituted string
	Reason      string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("method %d: %s (raw: %q, substituted: %q)", e.MethodIndex, e.Reason, e.Raw, e.Substituted)
}

// Config holds the tunable constants of answer materialization.
type Config struct {
	// DistractorCount is the number of incorrect options generated per
	// final-answer variable.
	DistractorCount int
	// PerturbationFactors are tried in order to derive plausible distractors
	// by scaling the correct value.
	PerturbationFactors []float64
}

func DefaultConfig() Config {
	return Config{
		DistractorCount:     3,
		PerturbationFactors: []float64{0.25, 0.5, 2, 4},
	}
}

// Evaluator materializes dynamic questions: it samples randomized variables,
// applies derivation methods in declaration order, and builds the answer set.
type Evaluator struct {
	cfg Config
	rng Rand
}

func New(cfg Config, rng Rand) *Evaluator {
	if cfg.DistractorCount <= 0 {
		cfg.DistractorCount = DefaultConfig().DistractorCount
	}
	if len(cfg.PerturbationFactors) == 0 {
		cfg.PerturbationFactors = DefaultConfig().PerturbationFactors
	}
	return &Evaluator{cfg: cfg, rng: rng}
}

var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// sanitizeRe strips every character outside the restricted expression
// alphabet before an authored method is parsed.
var sanitizeRe = regexp.MustCompile(`[^0-9a-zA-Z_+\-*/%^().,= \t]`)

// Evaluate resolves the variable list and applies every method in order.
//
// With randomize true, each randomized variable is re-sampled uniformly from
// its [min, max] range at step granularity. With randomize false the default
// (or, failing that, min) is used, so two calls on identical input yield
// identical output.
//
// Rounding policy: a value assigned to a variable with declared decimal
// places is rounded at assignment time, and that rounded value is what later
// methods see. The learner-visible value and the computation chain therefore
// always agree. Variables without declared decimal places keep full float64
// precision between steps.
func (ev *Evaluator) Evaluate(vars []VariableDefinition, methods []MethodDefinition, randomize bool) (*Result, error) {
	env := make(map[string]float64, len(vars))
	declared := make(map[string]*VariableDefinition, len(vars))
	resolvedIdx := make(map[string]int, len(vars))
	resolved := make([]ResolvedVariable, 0, len(vars))

	for i := range vars {
		v := &vars[i]
		if !identRe.MatchString(v.Name) {
			return nil, fmt.Errorf("variable %d has invalid name %q", i, v.Name)
		}
		if _, dup := declared[v.Name]; dup {
			return nil, fmt.Errorf("variable %q declared more than once", v.Name)
		}
		declared[v.Name] = v

		val, err := ev.resolveValue(v, randomize)
		if err != nil {
			return nil, err
		}
		env[v.Name] = val
		resolvedIdx[v.Name] = len(resolved)
		resolved = append(resolved, ResolvedVariable{
			Name:          v.Name,
			Value:         val,
			Unit:          v.Unit,
			DecimalPlaces: v.DecimalPlaces,
			IsFinalAnswer: v.IsFinalAnswer,
		})
	}

	for i, m := range methods {
		sanitized := strings.TrimSpace(sanitizeRe.ReplaceAllString(m.Expr, ""))

		parts := strings.Split(sanitized, "=")
		if len(parts) != 2 {
			return nil, &EvaluationError{
				MethodIndex: i,
				Raw:         m.Expr,
				Substituted: sanitized,
				Reason:      fmt.Sprintf("expression must contain exactly one '=', found %d", len(parts)-1),
			}
		}

		lhs := strings.TrimSpace(parts[0])
		rhs := strings.TrimSpace(parts[1])
		substituted := substitute(rhs, env)

		if !identRe.MatchString(lhs) {
			return nil, &EvaluationError{
				MethodIndex: i,
				Raw:         m.Expr,
				Substituted: substituted,
				Reason:      fmt.Sprintf("left-hand side %q is not a valid variable name", lhs),
			}
		}

		val, err := evalExpression(rhs, env)
		if err != nil {
			return nil, &EvaluationError{
				MethodIndex: i,
				Raw:         m.Expr,
				Substituted: substituted,
				Reason:      err.Error(),
			}
		}

		if decl, ok := declared[lhs]; ok && decl.DecimalPlaces != nil {
			val = roundTo(val, *decl.DecimalPlaces)
		}
		env[lhs] = val

		if idx, ok := resolvedIdx[lhs]; ok {
			resolved[idx].Value = val
		} else {
			resolvedIdx[lhs] = len(resolved)
			resolved = append(resolved, ResolvedVariable{Name: lhs, Value: val})
		}
	}

	result := &Result{Variables: resolved}
	for _, rv := range resolved {
		if rv.IsFinalAnswer {
			result.Answers = append(result.Answers, ev.buildAnswerSet(rv)...)
		}
	}
	return result, nil
}

func (ev *Evaluator) resolveValue(v *VariableDefinition, randomize bool) (float64, error) {
	canSample := v.Min != nil && v.Max != nil && v.Step != nil
	if canSample {
		if *v.Step <= 0 {
			return 0, fmt.Errorf("variable %q has non-positive step %v", v.Name, *v.Step)
		}
		if *v.Max < *v.Min {
			return 0, fmt.Errorf("variable %q has empty range [%v, %v]", v.Name, *v.Min, *v.Max)
		}
	}

	var val float64
	switch {
	case randomize && v.Randomize && canSample:
		// Uniform over the step grid of [min, max].
		steps := int(math.Floor((*v.Max-*v.Min)/(*v.Step) + 1e-9))
		val = *v.Min + float64(ev.rng.Intn(steps+1))*(*v.Step)
	case v.Default != nil:
		val = *v.Default
	case v.Min != nil:
		val = *v.Min
	default:
		val = 0
	}

	if v.DecimalPlaces != nil {
		val = roundTo(val, *v.DecimalPlaces)
	}
	return val, nil
}

// substitute replaces every known identifier in the expression with its
// numeric value. Used only for diagnostics on evaluation failure.
func substitute(expr string, env map[string]float64) string {
	var b strings.Builder
	for i := 0; i < len(expr); {
		c := expr[i]
		if !isIdentStart(c) {
			b.WriteByte(c)
			i++
			continue
		}
		start := i
		for i < len(expr) && isIdentPart(expr[i]) {
			i++
		}
		name := expr[start:i]
		if v, ok := env[name]; ok {
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		} else {
			b.WriteString(name)
		}
	}
	return b.String()
}

func roundTo(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
