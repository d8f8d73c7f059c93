package encoding

import (
	"errors"
	"io"
)

// Variable Byte Integer encoding/decoding for MQTT 5.0
//
// Per MQTT 5.0 specification section 1.5.5:
// - Variable Byte Integer encodes values from 0 to 268,435,455 (0xFF,0xFF,0xFF,0x7F)
// - Uses continuation bit (bit 7) to indicate if more bytes follow
// - Encodes 7 bits of data per byte, least significant group first
// - Maximum of 4 bytes
//
// The same format carries the property block length, the Subscription Identifier
// property and the fixed header Remaining Length of the enclosing packet.
//
// The encoders do not reject values above MaxVariableByteInteger; range checks
// belong to the caller. Such values encode to 5 bytes, which no decoder accepts.

const (
	// MaxVariableByteInteger is the maximum value that can be encoded (268,435,455)
	MaxVariableByteInteger uint32 = 268435455 // 0x0FFFFFFF

	// MaxVariableByteIntegerBytes is the maximum number of bytes in a variable byte integer
	MaxVariableByteIntegerBytes = 4

	continuationBit = 0x80
)

// EncodeVariableByteInteger encodes a uint32 as MQTT Variable Byte Integer.
//
// Per MQTT spec:
// - Values 0-127: 1 byte
// - Values 128-16,383: 2 bytes
// - Values 16,384-2,097,151: 3 bytes
// - Values 2,097,152-268,435,455: 4 bytes
func EncodeVariableByteInteger(value uint32) []byte {
	return AppendVariableByteInteger(make([]byte, 0, MaxVariableByteIntegerBytes), value)
}

// AppendVariableByteInteger appends the encoding of value to dst and returns the extended slice.
func AppendVariableByteInteger(dst []byte, value uint32) []byte {
	for {
		encodedByte := byte(value % 128)
		value = value / 128

		if value > 0 {
			encodedByte |= continuationBit
		}

		dst = append(dst, encodedByte)

		if value == 0 {
			return dst
		}
	}
}

// EncodeVariableByteIntegerTo encodes a uint32 as MQTT Variable Byte Integer
// and writes it to the provided byte slice starting at offset.
// Returns the number of bytes written, or ErrBufferTooSmall if buf ends first.
func EncodeVariableByteIntegerTo(buf []byte, offset int, value uint32) (int, error) {
	if offset < 0 {
		return 0, ErrBadParameter
	}

	bytesWritten := 0
	for {
		encodedByte := byte(value % 128)
		value = value / 128

		if value > 0 {
			encodedByte |= continuationBit
		}

		if offset+bytesWritten >= len(buf) {
			return 0, ErrBufferTooSmall
		}

		buf[offset+bytesWritten] = encodedByte
		bytesWritten++

		if value == 0 {
			return bytesWritten, nil
		}
	}
}

// DecodeVariableByteIntegerFromBytes decodes MQTT Variable Byte Integer from a byte slice.
// Returns the decoded value, number of bytes consumed, and any error.
//
// The length of data is checked before every byte is read. A fourth byte that
// still carries the continuation bit fails with ErrMalformedVariableByteInteger
// without looking at a fifth; running out of data first fails with
// ErrBufferTooShort. On failure both value and consumed count are zero.
func DecodeVariableByteIntegerFromBytes(data []byte) (uint32, int, error) {
	var value uint32
	var multiplier uint32 = 1

	for i := 0; i < MaxVariableByteIntegerBytes; i++ {
		if i >= len(data) {
			return 0, 0, ErrBufferTooShort
		}

		encodedByte := data[i]
		value += uint32(encodedByte&0x7F) * multiplier

		if encodedByte&continuationBit == 0 {
			return value, i + 1, nil
		}

		multiplier *= 128
	}

	return 0, 0, ErrMalformedVariableByteInteger
}

// DecodeVariableByteInteger decodes MQTT Variable Byte Integer from a reader.
// It reads at most MaxVariableByteIntegerBytes bytes.
func DecodeVariableByteInteger(r io.Reader) (uint32, error) {
	var value uint32
	var multiplier uint32 = 1
	var buf [1]byte

	for i := 0; i < MaxVariableByteIntegerBytes; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, ErrBufferTooShort
			}
			return 0, err
		}

		encodedByte := buf[0]
		value += uint32(encodedByte&0x7F) * multiplier

		if encodedByte&continuationBit == 0 {
			return value, nil
		}

		multiplier *= 128
	}

	return 0, ErrMalformedVariableByteInteger
}

// SizeVariableByteInteger returns the number of bytes EncodeVariableByteInteger produces for value.
func SizeVariableByteInteger(value uint32) int {
	switch {
	case value <= 127:
		return 1
	case value <= 16383:
		return 2
	case value <= 2097151:
		return 3
	case value <= MaxVariableByteInteger:
		return 4
	}
	return 5
}
