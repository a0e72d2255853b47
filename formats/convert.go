package formats

import (
	"fmt"

	"outfitmem/outfit"
)

// Every pairwise conversion goes through the canonical model.

func CheraxToYim(c *CheraxOutfit) *YimOutfit     { return CanonicalToYim(CheraxToCanonical(c)) }
func CheraxToLexis(c *CheraxOutfit) *LexisOutfit { return CanonicalToLexis(CheraxToCanonical(c)) }
func CheraxToStand(c *CheraxOutfit) *StandOutfit { return CanonicalToStand(CheraxToCanonical(c)) }

func YimToCherax(y *YimOutfit) *CheraxOutfit { return CanonicalToCherax(YimToCanonical(y)) }
func YimToLexis(y *YimOutfit) *LexisOutfit   { return CanonicalToLexis(YimToCanonical(y)) }
func YimToStand(y *YimOutfit) *StandOutfit   { return CanonicalToStand(YimToCanonical(y)) }

func LexisToCherax(l *LexisOutfit) *CheraxOutfit { return CanonicalToCherax(LexisToCanonical(l)) }
func LexisToYim(l *LexisOutfit) *YimOutfit       { return CanonicalToYim(LexisToCanonical(l)) }
func LexisToStand(l *LexisOutfit) *StandOutfit   { return CanonicalToStand(LexisToCanonical(l)) }

func StandToCherax(s *StandOutfit) *CheraxOutfit { return CanonicalToCherax(StandToCanonical(s)) }
func StandToYim(s *StandOutfit) *YimOutfit       { return CanonicalToYim(StandToCanonical(s)) }
func StandToLexis(s *StandOutfit) *LexisOutfit   { return CanonicalToLexis(StandToCanonical(s)) }

// Encoder is implemented by every schema struct
type Encoder interface {
	Encode() ([]byte, error)
}

// ToCanonical converts a decoded schema value (*CheraxOutfit, *YimOutfit,
// *LexisOutfit or *StandOutfit)
func ToCanonical(v any) (*outfit.Outfit, error) {
	switch x := v.(type) {
	case *CheraxOutfit:
		return CheraxToCanonical(x), nil
	case *YimOutfit:
		return YimToCanonical(x), nil
	case *LexisOutfit:
		return LexisToCanonical(x), nil
	case *StandOutfit:
		return StandToCanonical(x), nil
	}
	return nil, fmt.Errorf("%T: %w", v, ErrUnknownFormat)
}

// FromCanonical builds the schema value for f
func FromCanonical(o *outfit.Outfit, f Format) (Encoder, error) {
	switch f {
	case Cherax:
		return CanonicalToCherax(o), nil
	case YimMenu:
		return CanonicalToYim(o), nil
	case Lexis:
		return CanonicalToLexis(o), nil
	case Stand:
		return CanonicalToStand(o), nil
	}
	return nil, fmt.Errorf("%s: %w", f, ErrUnknownFormat)
}

func formatOf(v any) Format {
	switch v.(type) {
	case *CheraxOutfit:
		return Cherax
	case *YimOutfit:
		return YimMenu
	case *LexisOutfit:
		return Lexis
	case *StandOutfit:
		return Stand
	}
	return Unknown
}

// Convert turns v, a decoded value of format from, into format to
func Convert(from, to Format, v any) (Encoder, error) {
	if from == Unknown || to == Unknown {
		return nil, ErrUnknownFormat
	}
	if got := formatOf(v); got != from {
		return nil, fmt.Errorf("value is %s, not %s: %w", got, from, ErrUnknownFormat)
	}

	o, err := ToCanonical(v)
	if err != nil {
		return nil, err
	}
	return FromCanonical(o, to)
}

// DecodeAs parses data as format f
func DecodeAs(data []byte, f Format) (Encoder, error) {
	var (
		v   Encoder
		err error
	)
	switch f {
	case Cherax:
		v, err = DecodeCherax(data)
	case YimMenu:
		v, err = DecodeYim(data)
	case Lexis:
		v, err = DecodeLexis(data)
	case Stand:
		v, err = DecodeStand(data)
	default:
		return nil, fmt.Errorf("%s: %w", f, ErrUnknownFormat)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Decode detects the format of data and converts it to the canonical model
func Decode(data []byte) (*outfit.Outfit, Format, error) {
	f := DetectFormat(data)
	if f == Unknown {
		return nil, Unknown, ErrUnknownFormat
	}

	v, err := DecodeAs(data, f)
	if err != nil {
		return nil, f, err
	}

	o, err := ToCanonical(v)
	if err != nil {
		return nil, f, err
	}
	return o, f, nil
}

// Encode serializes o as format f
func Encode(o *outfit.Outfit, f Format) ([]byte, error) {
	v, err := FromCanonical(o, f)
	if err != nil {
		return nil, err
	}
	return v.Encode()
}
