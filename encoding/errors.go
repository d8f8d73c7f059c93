package encoding

import "errors"

var (
	// ErrBadParameter indicates an invalid argument or malformed input.
	// Decode and encode failures wrap a more specific cause alongside it.
	ErrBadParameter = errors.New("bad parameter")

	// ErrNoMemory indicates the property collection is at capacity
	ErrNoMemory = errors.New("property collection capacity exhausted")

	// ErrVariableByteIntegerTooLarge indicates the value exceeds the maximum encodable value (268,435,455)
	ErrVariableByteIntegerTooLarge = errors.New("variable byte integer value exceeds maximum (268,435,455)")

	// ErrMalformedVariableByteInteger indicates invalid variable byte integer encoding
	ErrMalformedVariableByteInteger = errors.New("malformed variable byte integer")

	// ErrBufferTooShort indicates the input ended before a complete value was read
	ErrBufferTooShort = errors.New("buffer too short")

	// ErrBufferTooSmall indicates the output buffer cannot hold the encoded data
	ErrBufferTooSmall = errors.New("buffer too small")

	ErrInvalidPropertyID    = errors.New("invalid property identifier")
	ErrPropertyTypeMismatch = errors.New("property value does not match identifier type")
	ErrPropertyTooLarge     = errors.New("property payload exceeds 65535 bytes")

	ErrInvalidUTF8           = errors.New("invalid UTF-8 encoding")
	ErrNullCharacter         = errors.New("UTF-8 string contains null character")
	ErrSurrogateCodePoint    = errors.New("UTF-8 string contains surrogate code point")
	ErrNonCharacterCodePoint = errors.New("UTF-8 string contains non-character code point")
	ErrControlCharacter      = errors.New("UTF-8 string contains control character")
)
