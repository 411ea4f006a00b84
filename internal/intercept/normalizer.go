package intercept

import (
	"errors"
	"fmt"

	"github.com/gertd/go-pluralize"
)

var (
	ErrEmptyMessage = errors.New("empty message")
	// ErrUnknownTier is returned when a pipe template's code is not 4, 6, 8 or 10 digits long.
	ErrUnknownTier = errors.New("unknown code tier")
)

const (
	StageCountry      = "country"
	StageWhitespace   = "whitespace"
	StagePipes        = "pipes"
	StageTerminal     = "terminal"
	StageIndent       = "indent"
	StageOddDigits    = "odd-digits"
	StageTypos        = "typos"
	StageShorthand    = "shorthand"
	StageHeadingLists = "heading-lists"
	StageLabels       = "labels"
	StageValidity     = "validity"
	StageTidy         = "tidy"
	StageATAR         = "atar"
	StageUsefulness   = "usefulness"
)

// Context is the per-message state a stage may read or update.
type Context struct {
	Term        string
	GenuineTerm string
	Diagnostics *Diagnostics

	Valid                bool
	CountryReference     bool
	ErroneousDigitLength int

	halted bool
}

// Halt stops the pipeline after the current stage; the message is kept as is.
func (c *Context) Halt() { c.halted = true }

type StageFunc func(message string, c *Context) (string, error)

type Stage struct {
	Name  string
	Apply StageFunc
}

type Result struct {
	Message              string
	Valid                bool
	CountryReference     bool
	ErroneousDigitLength int
}

// Normalizer turns raw guidance text into the published sentence. It holds
// only immutable state and may be shared between goroutines.
type Normalizer struct {
	variant   Variant
	ref       Reference
	validator *Validator
	plural    *pluralize.Client
	stages    []Stage
}

func NewNormalizer(variant Variant, ref Reference) *Normalizer {
	n := &Normalizer{
		variant:   variant,
		ref:       ref,
		validator: NewValidator(ref),
		plural:    pluralize.NewClient(),
	}
	n.stages = n.buildStages()
	return n
}

func (n *Normalizer) Variant() Variant { return n.variant }

// Stages returns a copy of the ordered stage list.
func (n *Normalizer) Stages() []Stage {
	out := make([]Stage, len(n.stages))
	copy(out, n.stages)
	return out
}

func (n *Normalizer) buildStages() []Stage {
	v := n.variant
	stages := make([]Stage, 0, 14)
	add := func(enabled bool, name string, fn StageFunc) {
		if enabled {
			stages = append(stages, Stage{Name: name, Apply: fn})
		}
	}

	add(v.CountrySubstitution, StageCountry, n.substituteCountry)
	add(true, StageWhitespace, normalizeWhitespace)
	add(true, StagePipes, n.expandPipes)
	add(true, StageTerminal, ensureTerminalPeriod)
	add(true, StageIndent, indentContinuations)
	add(true, StageOddDigits, detectOddDigits)
	add(true, StageTypos, n.correctTypos)
	add(true, StageShorthand, n.expandShorthand)
	add(v.HeadingLists, StageHeadingLists, expandHeadingLists)
	add(true, StageLabels, n.standardiseLabels)
	add(true, StageValidity, n.checkValidity)
	add(true, StageTidy, n.tidy)
	add(v.ATARNote, StageATAR, appendATARNote)
	add(v.UsefulnessCheck, StageUsefulness, checkUsefulness)
	return stages
}

// Normalize runs every stage over message. Findings go to diag, which may be nil.
func (n *Normalizer) Normalize(term, message, genuineTerm string, diag *Diagnostics) (Result, error) {
	if diag == nil {
		diag = NewDiagnostics()
	}
	c := &Context{
		Term:        term,
		GenuineTerm: genuineTerm,
		Diagnostics: diag,
		Valid:       true,
	}

	for _, stage := range n.stages {
		next, err := stage.Apply(message, c)
		if err != nil {
			return Result{}, fmt.Errorf("%s stage for %q: %w", stage.Name, term, err)
		}
		message = next
		if c.halted {
			break
		}
	}

	return Result{
		Message:              message,
		Valid:                c.Valid,
		CountryReference:     c.CountryReference,
		ErroneousDigitLength: c.ErroneousDigitLength,
	}, nil
}
