package encoding

import "slices"

// Serialize writes the property block, length prefix first, into buf and
// returns the number of bytes written.
//
// Properties are written in insertion order. Every write is checked against
// len(buf): a buffer shorter than EncodedSize fails with ErrBufferTooSmall.
// An unknown identifier or a value that does not match its identifier fails
// with ErrBadParameter. On failure buf holds a partial block and must be
// discarded; the returned count is how far encoding got.
func (p *Properties) Serialize(buf []byte) (int, error) {
	if p == nil {
		return 0, ErrBadParameter
	}

	length := p.payloadSize(false)
	if uint64(length) > uint64(MaxVariableByteInteger) {
		return 0, badParameter(ErrVariableByteIntegerTooLarge)
	}

	offset, err := EncodeVariableByteIntegerTo(buf, 0, uint32(length))
	if err != nil {
		return 0, err
	}

	for i := 0; i < p.count; i++ {
		bytesWritten, err := encodePropertyToBytes(buf[offset:], &p.items[i])
		offset += bytesWritten
		if err != nil {
			return offset, err
		}
	}

	return offset, nil
}

// AppendTo appends the encoded property block to dst and returns the extended slice.
// On error dst is returned unchanged.
func (p *Properties) AppendTo(dst []byte) ([]byte, error) {
	n := p.EncodedSize()
	start := len(dst)
	dst = slices.Grow(dst, n)
	written, err := p.Serialize(dst[start : start+n])
	if err != nil {
		return dst[:start], err
	}
	return dst[:start+written], nil
}

// encodePropertyToBytes encodes a single property to a byte slice
func encodePropertyToBytes(buf []byte, prop *Property) (int, error) {
	if err := prop.Check(); err != nil {
		return 0, err
	}
	if len(buf) < 1 {
		return 0, ErrBufferTooSmall
	}

	buf[0] = byte(prop.ID)
	offset := 1

	var bytesWritten int
	var err error

	v := &prop.Value
	switch prop.ID.Type() {
	case PropertyTypeByte:
		bytesWritten, err = writeByteToBytes(buf[offset:], v.Byte)
	case PropertyTypeTwoByteInt:
		bytesWritten, err = writeTwoByteIntToBytes(buf[offset:], v.TwoByteInt)
	case PropertyTypeFourByteInt:
		bytesWritten, err = writeFourByteIntToBytes(buf[offset:], v.FourByteInt)
	case PropertyTypeVarInt:
		bytesWritten, err = EncodeVariableByteIntegerTo(buf, offset, v.FourByteInt)
	case PropertyTypeUTF8String:
		bytesWritten, err = writeLengthPrefixedToBytes(buf[offset:], v.UTF8String)
	case PropertyTypeUTF8Pair:
		bytesWritten, err = writeUTF8PairToBytes(buf[offset:], v.UserProperty)
	case PropertyTypeBinaryData:
		bytesWritten, err = writeLengthPrefixedToBytes(buf[offset:], v.BinaryData)
	default:
		return 0, badParameter(ErrInvalidPropertyID)
	}

	if err != nil {
		return offset, err
	}
	return offset + bytesWritten, nil
}

func writeByteToBytes(buf []byte, value byte) (int, error) {
	if len(buf) < 1 {
		return 0, ErrBufferTooSmall
	}
	buf[0] = value
	return 1, nil
}

func writeTwoByteIntToBytes(buf []byte, value uint16) (int, error) {
	if len(buf) < 2 {
		return 0, ErrBufferTooSmall
	}
	buf[0] = byte(value >> 8)
	buf[1] = byte(value)
	return 2, nil
}

func writeFourByteIntToBytes(buf []byte, value uint32) (int, error) {
	if len(buf) < 4 {
		return 0, ErrBufferTooSmall
	}
	buf[0] = byte(value >> 24)
	buf[1] = byte(value >> 16)
	buf[2] = byte(value >> 8)
	buf[3] = byte(value)
	return 4, nil
}

// writeLengthPrefixedToBytes writes a two byte length followed by data.
// Shared by UTF-8 strings, binary data and both halves of a string pair.
func writeLengthPrefixedToBytes(buf []byte, data []byte) (int, error) {
	if len(buf) < 2+len(data) {
		return 0, ErrBufferTooSmall
	}
	if _, err := writeTwoByteIntToBytes(buf, uint16(len(data))); err != nil {
		return 0, err
	}
	copy(buf[2:], data)
	return 2 + len(data), nil
}

func writeUTF8PairToBytes(buf []byte, value UTF8Pair) (int, error) {
	offset, err := writeLengthPrefixedToBytes(buf, value.Key)
	if err != nil {
		return 0, err
	}

	bytesWritten, err := writeLengthPrefixedToBytes(buf[offset:], value.Value)
	if err != nil {
		return offset, err
	}

	return offset + bytesWritten, nil
}
