package encoding

import (
	"fmt"
	"unicode/utf8"
)

// ValidateUTF8String validates a UTF-8 encoded string according to MQTT specification.
// MQTT 5.0 Section 1.5.4 specifies that UTF-8 Encoded Strings must:
// - Be valid UTF-8 as defined in RFC 3629
// - Not include null character U+0000
// - Not include code points between U+D800 and U+DFFF (UTF-16 surrogates)
// - Should not include non-character code points such as U+FFFE and U+FFFF
func ValidateUTF8String(data []byte) error {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return ErrInvalidUTF8
		}
		if err := validateCodePoint(r); err != nil {
			return err
		}
		i += size
	}
	return nil
}

// ValidateUTF8StringStrict additionally rejects control characters
// U+0001..U+001F (except tab, LF and CR) and U+007F..U+009F.
func ValidateUTF8StringStrict(data []byte) error {
	if err := ValidateUTF8String(data); err != nil {
		return err
	}

	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if (r >= 0x0001 && r <= 0x001F && r != 0x0009 && r != 0x000A && r != 0x000D) ||
			(r >= 0x007F && r <= 0x009F) {
			return ErrControlCharacter
		}
		i += size
	}

	return nil
}

// validateCodePoint checks if a Unicode code point is allowed in MQTT UTF-8 strings
func validateCodePoint(r rune) error {
	if r == 0x0000 {
		return ErrNullCharacter
	}

	// Go's decoder already maps encoded surrogates to RuneError; kept for runes from other sources.
	if r >= 0xD800 && r <= 0xDFFF {
		return ErrSurrogateCodePoint
	}

	// U+nFFFE and U+nFFFF in every plane, and U+FDD0..U+FDEF. U+10FFFF is
	// the largest code point and stays allowed.
	if r != 0x10FFFF && ((r&0xFFFF) == 0xFFFE || (r&0xFFFF) == 0xFFFF) {
		return ErrNonCharacterCodePoint
	}
	if r >= 0xFDD0 && r <= 0xFDEF {
		return ErrNonCharacterCodePoint
	}

	return nil
}

// ValidateUTF8 checks every UTF-8 string and user property in the collection.
// Decoding does not do this on its own. With strict set, control characters
// are rejected too. The error names the offending property.
func (p *Properties) ValidateUTF8(strict bool) error {
	validate := ValidateUTF8String
	if strict {
		validate = ValidateUTF8StringStrict
	}

	for _, prop := range p.Items() {
		var err error
		switch prop.Value.Kind {
		case KindUTF8String:
			err = validate(prop.Value.UTF8String)
		case KindUserProperty:
			if err = validate(prop.Value.UserProperty.Key); err == nil {
				err = validate(prop.Value.UserProperty.Value)
			}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", prop.ID, err)
		}
	}
	return nil
}
