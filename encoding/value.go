package encoding

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
)

// ValueKind identifies the active case of a Value
type ValueKind byte

const (
	KindInvalid ValueKind = iota
	KindByte
	KindTwoByteInt
	KindFourByteInt
	KindUTF8String
	KindBinaryData
	KindUserProperty
)

func (k ValueKind) String() string {
	switch k {
	case KindByte:
		return "Byte"
	case KindTwoByteInt:
		return "TwoByteInt"
	case KindFourByteInt:
		return "FourByteInt"
	case KindUTF8String:
		return "UTF8String"
	case KindBinaryData:
		return "BinaryData"
	case KindUserProperty:
		return "UserProperty"
	}
	return "Invalid"
}

// UTF8Pair represents a key-value pair for user properties.
// Key and Value are views into memory owned by the caller.
type UTF8Pair struct {
	Key   []byte
	Value []byte
}

// Value is a tagged union over the property payload encodings.
// Only the field selected by Kind is meaningful.
//
// UTF8String, BinaryData and UserProperty borrow their bytes: neither the
// collection nor the serializer copies them into storage of their own, so the
// memory they point at must stay unchanged while the property is in use.
type Value struct {
	Kind         ValueKind
	Byte         byte
	TwoByteInt   uint16
	FourByteInt  uint32
	UTF8String   []byte
	BinaryData   []byte
	UserProperty UTF8Pair
}

func ByteValue(v byte) Value {
	return Value{Kind: KindByte, Byte: v}
}

func TwoByteIntValue(v uint16) Value {
	return Value{Kind: KindTwoByteInt, TwoByteInt: v}
}

// FourByteIntValue holds four byte integers and the Subscription Identifier.
func FourByteIntValue(v uint32) Value {
	return Value{Kind: KindFourByteInt, FourByteInt: v}
}

func UTF8StringValue(s []byte) Value {
	return Value{Kind: KindUTF8String, UTF8String: s}
}

func BinaryDataValue(b []byte) Value {
	return Value{Kind: KindBinaryData, BinaryData: b}
}

func UserPropertyValue(key, value []byte) Value {
	return Value{Kind: KindUserProperty, UserProperty: UTF8Pair{Key: key, Value: value}}
}

// Property represents a single MQTT 5.0 property
type Property struct {
	ID    PropertyID
	Value Value
}

// NewProperty pairs an identifier with a value after checking that the value
// case matches the identifier's wire type and fits its length field.
func NewProperty(id PropertyID, v Value) (Property, error) {
	p := Property{ID: id, Value: v}
	if err := p.Check(); err != nil {
		return Property{}, err
	}
	return p, nil
}

// Check reports whether the property can be encoded. Every failure matches
// ErrBadParameter as well as the specific cause.
func (p Property) Check() error {
	t := p.ID.Type()
	if t == PropertyTypeInvalid {
		return badParameter(ErrInvalidPropertyID)
	}
	if p.Value.Kind != t.ValueKind() {
		return badParameter(ErrPropertyTypeMismatch)
	}

	switch p.Value.Kind {
	case KindFourByteInt:
		if t == PropertyTypeVarInt && p.Value.FourByteInt > MaxVariableByteInteger {
			return badParameter(ErrVariableByteIntegerTooLarge)
		}
	case KindUTF8String:
		if len(p.Value.UTF8String) > math.MaxUint16 {
			return badParameter(ErrPropertyTooLarge)
		}
	case KindBinaryData:
		if len(p.Value.BinaryData) > math.MaxUint16 {
			return badParameter(ErrPropertyTooLarge)
		}
	case KindUserProperty:
		if len(p.Value.UserProperty.Key) > math.MaxUint16 || len(p.Value.UserProperty.Value) > math.MaxUint16 {
			return badParameter(ErrPropertyTooLarge)
		}
	}
	return nil
}

func (p Property) Byte() (byte, bool) {
	return p.Value.Byte, p.Value.Kind == KindByte
}

func (p Property) TwoByteInt() (uint16, bool) {
	return p.Value.TwoByteInt, p.Value.Kind == KindTwoByteInt
}

func (p Property) FourByteInt() (uint32, bool) {
	return p.Value.FourByteInt, p.Value.Kind == KindFourByteInt
}

func (p Property) UTF8String() ([]byte, bool) {
	return p.Value.UTF8String, p.Value.Kind == KindUTF8String
}

func (p Property) BinaryData() ([]byte, bool) {
	return p.Value.BinaryData, p.Value.Kind == KindBinaryData
}

func (p Property) UserProperty() (UTF8Pair, bool) {
	return p.Value.UserProperty, p.Value.Kind == KindUserProperty
}

// String renders the property as name=value. String payloads are copied here.
func (p Property) String() string {
	v := p.Value
	switch v.Kind {
	case KindByte:
		return p.ID.String() + "=" + strconv.Itoa(int(v.Byte))
	case KindTwoByteInt:
		return p.ID.String() + "=" + strconv.Itoa(int(v.TwoByteInt))
	case KindFourByteInt:
		return p.ID.String() + "=" + strconv.FormatUint(uint64(v.FourByteInt), 10)
	case KindUTF8String:
		return p.ID.String() + "=" + strconv.Quote(string(v.UTF8String))
	case KindBinaryData:
		return p.ID.String() + "=0x" + hex.EncodeToString(v.BinaryData)
	case KindUserProperty:
		return fmt.Sprintf("%s=%q:%q", p.ID, v.UserProperty.Key, v.UserProperty.Value)
	}
	return fmt.Sprintf("%s(0x%02X)=<invalid>", p.ID, byte(p.ID))
}

func badParameter(cause error) error {
	return fmt.Errorf("%w: %w", ErrBadParameter, cause)
}
