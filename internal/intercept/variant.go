package intercept

import (
	"fmt"
	"strings"
)

type PipePrefixMode int

const (
	// PipeItemsFor turns a leading "For ..." into "items for ...".
	PipeItemsFor PipePrefixMode = iota
	// PipeDropFor removes a leading "For " altogether.
	PipeDropFor
)

// Variant selects which optional rules the pipeline runs. The shared stages
// always run.
type Variant struct {
	Name string

	CountrySubstitution  bool
	PipePrefix           PipePrefixMode
	HeadingLists         bool
	ExtraShorthand       bool
	SpaceAfterHeading    bool
	EightDigitHeadingFix bool
	ConnectiveTidy       bool
	ATARNote             bool
	UsefulnessCheck      bool
}

const (
	VariantGeneric  = "generic"
	VariantBusiness = "business"
)

func GenericVariant() Variant {
	return Variant{
		Name:                 VariantGeneric,
		PipePrefix:           PipeItemsFor,
		HeadingLists:         true,
		ExtraShorthand:       true,
		EightDigitHeadingFix: true,
		ConnectiveTidy:       true,
		ATARNote:             true,
		UsefulnessCheck:      true,
	}
}

func BusinessVariant() Variant {
	return Variant{
		Name:                 VariantBusiness,
		CountrySubstitution:  true,
		PipePrefix:           PipeDropFor,
		ExtraShorthand:       true,
		SpaceAfterHeading:    true,
		EightDigitHeadingFix: true,
	}
}

func VariantByName(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", VariantGeneric:
		return GenericVariant(), nil
	case VariantBusiness:
		return BusinessVariant(), nil
	default:
		return Variant{}, fmt.Errorf("unsupported variant: %s", name)
	}
}
