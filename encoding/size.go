package encoding

// subscriptionIdentifierEstimate is the width Size reserves for every
// Subscription Identifier, whatever its value.
const subscriptionIdentifierEstimate = MaxVariableByteIntegerBytes

// Size returns the length of the property block payload, excluding the
// Variable Byte Integer length prefix.
//
// Subscription Identifiers are counted at a fixed 4 bytes, so for collections
// containing them Size may exceed the bytes Serialize writes by up to 3 per
// identifier. Properties with an unknown identifier count as 0 bytes; they are
// ignored here even though Serialize and Deserialize reject them.
func (p *Properties) Size() int {
	return p.payloadSize(true)
}

// EncodedSize returns the exact number of bytes Serialize writes, length
// prefix included. It is the buffer size to allocate for Serialize.
func (p *Properties) EncodedSize() int {
	n := p.payloadSize(false)
	return SizeVariableByteInteger(uint32(n)) + n
}

func (p *Properties) payloadSize(estimate bool) int {
	if p == nil {
		return 0
	}

	size := 0
	for i := 0; i < p.count; i++ {
		prop := &p.items[i]
		t := prop.ID.Type()
		if t == PropertyTypeInvalid {
			continue
		}
		size++ // Property ID byte
		size += valueSize(t, &prop.Value, estimate)
	}
	return size
}

// valueSize returns the encoded payload length of v as type t.
func valueSize(t PropertyType, v *Value, estimate bool) int {
	switch t {
	case PropertyTypeByte:
		return 1
	case PropertyTypeTwoByteInt:
		return 2
	case PropertyTypeFourByteInt:
		return 4
	case PropertyTypeVarInt:
		if estimate {
			return subscriptionIdentifierEstimate
		}
		return SizeVariableByteInteger(v.FourByteInt)
	case PropertyTypeUTF8String:
		return 2 + len(v.UTF8String)
	case PropertyTypeBinaryData:
		return 2 + len(v.BinaryData)
	case PropertyTypeUTF8Pair:
		return 2 + len(v.UserProperty.Key) + 2 + len(v.UserProperty.Value)
	}
	return 0
}
