package session

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Param identifies a style attribute that can be changed from a toolbar.
type Param int

const (
	InkThickness Param = iota + 1
	InkColor
	FreeTextSize
	FreeTextColor
)

func (p Param) String() string {
	switch p {
	case InkThickness:
		return "ink-thickness"
	case InkColor:
		return "ink-color"
	case FreeTextSize:
		return "freetext-size"
	case FreeTextColor:
		return "freetext-color"
	default:
		return fmt.Sprintf("Param(%d)", int(p))
	}
}

// Kind returns the kind of session the parameter applies to.
func (p Param) Kind() Kind {
	switch p {
	case InkThickness, InkColor:
		return KindInk
	case FreeTextSize, FreeTextColor:
		return KindFreeText
	default:
		return 0
	}
}

const (
	DefaultThickness = 1.0
	DefaultFontSize  = 10.0
	DefaultColor     = "#000000"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// validate checks v for use as the value of p and returns it in canonical
// form: float64 for sizes, a lower-case "#rrggbb" string for colors.
func (p Param) validate(v any) (any, error) {
	switch p {
	case InkThickness, FreeTextSize:
		var f float64
		switch v := v.(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		default:
			return nil, fmt.Errorf("%s: %T: %w", p, v, ErrParamType)
		}
		if !(f > 0) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%s: %g: %w", p, f, ErrParamType)
		}
		return f, nil
	case InkColor, FreeTextColor:
		s, ok := v.(string)
		if !ok || !hexColor.MatchString(s) {
			return nil, fmt.Errorf("%s: %v: %w", p, v, ErrParamType)
		}
		return strings.ToLower(s), nil
	default:
		return nil, fmt.Errorf("%s: %w", p, ErrParamType)
	}
}

// defaults are the attribute values given to newly created sessions.
type defaults struct {
	thickness float64
	inkColor  string
	fontSize  float64
	textColor string
}

func newDefaults() defaults {
	return defaults{
		thickness: DefaultThickness,
		inkColor:  DefaultColor,
		fontSize:  DefaultFontSize,
		textColor: DefaultColor,
	}
}

func (d *defaults) set(p Param, v any) {
	switch p {
	case InkThickness:
		d.thickness = v.(float64)
	case InkColor:
		d.inkColor = v.(string)
	case FreeTextSize:
		d.fontSize = v.(float64)
	case FreeTextColor:
		d.textColor = v.(string)
	}
}

func (d *defaults) get(p Param) any {
	switch p {
	case InkThickness:
		return d.thickness
	case InkColor:
		return d.inkColor
	case FreeTextSize:
		return d.fontSize
	case FreeTextColor:
		return d.textColor
	default:
		return nil
	}
}
