package encoding

// Deserialize parses a property block from buf and appends its properties to p.
// It returns the number of bytes consumed, length prefix included.
//
// Parsing stops at the end of the declared block length or the end of buf,
// whichever comes first, and no read crosses that bound: a property cut short
// by it fails with ErrBadParameter wrapping ErrBufferTooShort. A malformed
// length prefix or an unknown identifier also fails with ErrBadParameter, and
// running out of capacity fails with ErrNoMemory. On failure p holds the
// properties parsed so far and must not be relied upon.
//
// String, binary and user property values are views into buf, which must
// outlive p and stay unmodified while p is in use.
func (p *Properties) Deserialize(buf []byte) (int, error) {
	if p == nil || p.items == nil {
		return 0, ErrBadParameter
	}

	propLength, offset, err := DecodeVariableByteIntegerFromBytes(buf)
	if err != nil {
		return 0, badParameter(err)
	}

	end := offset + int(propLength)
	if end > len(buf) {
		end = len(buf)
	}
	data := buf[:end]

	for offset < end {
		prop, bytesRead, err := parsePropertyFromBytes(data[offset:])
		if err != nil {
			return offset, err
		}
		offset += bytesRead

		if err := p.Add(prop); err != nil {
			return offset, err
		}
	}

	return offset, nil
}

// DeserializeProperties parses a property block into a new collection stored in backing.
func DeserializeProperties(buf []byte, backing []Property) (*Properties, int, error) {
	props, err := NewProperties(backing)
	if err != nil {
		return nil, 0, err
	}
	n, err := props.Deserialize(buf)
	if err != nil {
		return nil, n, err
	}
	return props, n, nil
}

// parsePropertyFromBytes parses a single property from a byte slice.
// data must already be cut at the end of the property block.
func parsePropertyFromBytes(data []byte) (Property, int, error) {
	if len(data) == 0 {
		return Property{}, 0, badParameter(ErrBufferTooShort)
	}

	prop := Property{ID: PropertyID(data[0])}
	offset := 1

	var bytesRead int
	var err error

	v := &prop.Value
	switch prop.ID.Type() {
	case PropertyTypeByte:
		v.Kind = KindByte
		v.Byte, bytesRead, err = readByteFromBytes(data[offset:])
	case PropertyTypeTwoByteInt:
		v.Kind = KindTwoByteInt
		v.TwoByteInt, bytesRead, err = readTwoByteIntFromBytes(data[offset:])
	case PropertyTypeFourByteInt:
		v.Kind = KindFourByteInt
		v.FourByteInt, bytesRead, err = readFourByteIntFromBytes(data[offset:])
	case PropertyTypeVarInt:
		v.Kind = KindFourByteInt
		v.FourByteInt, bytesRead, err = DecodeVariableByteIntegerFromBytes(data[offset:])
	case PropertyTypeUTF8String:
		v.Kind = KindUTF8String
		v.UTF8String, bytesRead, err = readLengthPrefixedFromBytes(data[offset:])
	case PropertyTypeUTF8Pair:
		v.Kind = KindUserProperty
		v.UserProperty, bytesRead, err = readUTF8PairFromBytes(data[offset:])
	case PropertyTypeBinaryData:
		v.Kind = KindBinaryData
		v.BinaryData, bytesRead, err = readLengthPrefixedFromBytes(data[offset:])
	default:
		return Property{}, 0, badParameter(ErrInvalidPropertyID)
	}

	if err != nil {
		return Property{}, 0, badParameter(err)
	}

	return prop, offset + bytesRead, nil
}

func readByteFromBytes(data []byte) (byte, int, error) {
	if len(data) < 1 {
		return 0, 0, ErrBufferTooShort
	}
	return data[0], 1, nil
}

func readTwoByteIntFromBytes(data []byte) (uint16, int, error) {
	if len(data) < 2 {
		return 0, 0, ErrBufferTooShort
	}
	return uint16(data[0])<<8 | uint16(data[1]), 2, nil
}

func readFourByteIntFromBytes(data []byte) (uint32, int, error) {
	if len(data) < 4 {
		return 0, 0, ErrBufferTooShort
	}
	value := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	return value, 4, nil
}

// readLengthPrefixedFromBytes returns a view of the payload following a two
// byte length. The view's capacity ends with the payload so appending to it
// cannot overwrite the rest of the block.
func readLengthPrefixedFromBytes(data []byte) ([]byte, int, error) {
	length, offset, err := readTwoByteIntFromBytes(data)
	if err != nil {
		return nil, 0, err
	}

	end := offset + int(length)
	if len(data) < end {
		return nil, 0, ErrBufferTooShort
	}

	return data[offset:end:end], end, nil
}

func readUTF8PairFromBytes(data []byte) (UTF8Pair, int, error) {
	key, offset, err := readLengthPrefixedFromBytes(data)
	if err != nil {
		return UTF8Pair{}, 0, err
	}

	value, bytesRead, err := readLengthPrefixedFromBytes(data[offset:])
	if err != nil {
		return UTF8Pair{}, 0, err
	}

	return UTF8Pair{Key: key, Value: value}, offset + bytesRead, nil
}
