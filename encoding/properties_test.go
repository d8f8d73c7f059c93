package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyID_Type(t *testing.T) {
	tests := []struct {
		id       PropertyID
		expected PropertyType
	}{
		{PropPayloadFormatIndicator, PropertyTypeByte},
		{PropMessageExpiryInterval, PropertyTypeFourByteInt},
		{PropContentType, PropertyTypeUTF8String},
		{PropResponseTopic, PropertyTypeUTF8String},
		{PropCorrelationData, PropertyTypeBinaryData},
		{PropSubscriptionIdentifier, PropertyTypeVarInt},
		{PropSessionExpiryInterval, PropertyTypeFourByteInt},
		{PropAssignedClientIdentifier, PropertyTypeUTF8String},
		{PropServerKeepAlive, PropertyTypeTwoByteInt},
		{PropAuthenticationMethod, PropertyTypeUTF8String},
		{PropAuthenticationData, PropertyTypeBinaryData},
		{PropRequestProblemInformation, PropertyTypeByte},
		{PropWillDelayInterval, PropertyTypeFourByteInt},
		{PropRequestResponseInformation, PropertyTypeByte},
		{PropResponseInformation, PropertyTypeUTF8String},
		{PropServerReference, PropertyTypeUTF8String},
		{PropReasonString, PropertyTypeUTF8String},
		{PropReceiveMaximum, PropertyTypeTwoByteInt},
		{PropTopicAliasMaximum, PropertyTypeTwoByteInt},
		{PropTopicAlias, PropertyTypeTwoByteInt},
		{PropMaximumQoS, PropertyTypeByte},
		{PropRetainAvailable, PropertyTypeByte},
		{PropUserProperty, PropertyTypeUTF8Pair},
		{PropMaximumPacketSize, PropertyTypeFourByteInt},
		{PropWildcardSubscriptionAvailable, PropertyTypeByte},
		{PropSubscriptionIdentifierAvailable, PropertyTypeByte},
		{PropSharedSubscriptionAvailable, PropertyTypeByte},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			assert.True(t, tt.id.Valid())
			assert.Equal(t, tt.expected, tt.id.Type())
			assert.NotEqual(t, KindInvalid, tt.id.Type().ValueKind())
		})
	}
}

func TestPropertyID_UnknownIdentifiers(t *testing.T) {
	known := 0
	for i := 0; i < 256; i++ {
		id := PropertyID(i)
		if id.Valid() {
			known++
			continue
		}
		assert.Equal(t, PropertyTypeInvalid, id.Type())
		assert.Equal(t, "UNKNOWN", id.String())
	}
	assert.Equal(t, 27, known)
}

func TestPropertyType_ValueKind(t *testing.T) {
	assert.Equal(t, KindByte, PropertyTypeByte.ValueKind())
	assert.Equal(t, KindTwoByteInt, PropertyTypeTwoByteInt.ValueKind())
	assert.Equal(t, KindFourByteInt, PropertyTypeFourByteInt.ValueKind())
	assert.Equal(t, KindFourByteInt, PropertyTypeVarInt.ValueKind())
	assert.Equal(t, KindUTF8String, PropertyTypeUTF8String.ValueKind())
	assert.Equal(t, KindUserProperty, PropertyTypeUTF8Pair.ValueKind())
	assert.Equal(t, KindBinaryData, PropertyTypeBinaryData.ValueKind())
	assert.Equal(t, KindInvalid, PropertyTypeInvalid.ValueKind())
}

func TestNewProperty(t *testing.T) {
	tests := []struct {
		name    string
		id      PropertyID
		value   Value
		wantErr error
	}{
		{name: "byte", id: PropPayloadFormatIndicator, value: ByteValue(1)},
		{name: "two_byte_int", id: PropTopicAlias, value: TwoByteIntValue(10)},
		{name: "four_byte_int", id: PropSessionExpiryInterval, value: FourByteIntValue(3600)},
		{name: "subscription_identifier", id: PropSubscriptionIdentifier, value: FourByteIntValue(MaxVariableByteInteger)},
		{name: "utf8_string", id: PropContentType, value: UTF8StringValue([]byte("json"))},
		{name: "empty_utf8_string", id: PropReasonString, value: UTF8StringValue(nil)},
		{name: "binary_data", id: PropCorrelationData, value: BinaryDataValue([]byte{0xDE, 0xAD})},
		{name: "user_property", id: PropUserProperty, value: UserPropertyValue([]byte("k"), []byte("v"))},
		{
			name:    "unknown_identifier",
			id:      PropertyID(0x00),
			value:   ByteValue(1),
			wantErr: ErrInvalidPropertyID,
		},
		{
			name:    "mismatched_kind",
			id:      PropContentType,
			value:   FourByteIntValue(1),
			wantErr: ErrPropertyTypeMismatch,
		},
		{
			name:    "byte_for_two_byte_int",
			id:      PropReceiveMaximum,
			value:   ByteValue(1),
			wantErr: ErrPropertyTypeMismatch,
		},
		{
			name:    "zero_value",
			id:      PropMaximumQoS,
			value:   Value{},
			wantErr: ErrPropertyTypeMismatch,
		},
		{
			name:    "subscription_identifier_too_large",
			id:      PropSubscriptionIdentifier,
			value:   FourByteIntValue(MaxVariableByteInteger + 1),
			wantErr: ErrVariableByteIntegerTooLarge,
		},
		{
			name:    "string_too_long",
			id:      PropResponseTopic,
			value:   UTF8StringValue(make([]byte, math.MaxUint16+1)),
			wantErr: ErrPropertyTooLarge,
		},
		{
			name:    "binary_too_long",
			id:      PropAuthenticationData,
			value:   BinaryDataValue(make([]byte, math.MaxUint16+1)),
			wantErr: ErrPropertyTooLarge,
		},
		{
			name:    "user_property_value_too_long",
			id:      PropUserProperty,
			value:   UserPropertyValue([]byte("k"), make([]byte, math.MaxUint16+1)),
			wantErr: ErrPropertyTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, err := NewProperty(tt.id, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrBadParameter)
				assert.Equal(t, Property{}, prop)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, prop.ID)
			assert.Equal(t, tt.value.Kind, prop.Value.Kind)
		})
	}
}

func TestNewProperty_MaxLengthString(t *testing.T) {
	_, err := NewProperty(PropReasonString, UTF8StringValue(make([]byte, math.MaxUint16)))
	assert.NoError(t, err)
}

func TestProperty_Accessors(t *testing.T) {
	p := Property{ID: PropTopicAlias, Value: TwoByteIntValue(7)}

	v, ok := p.TwoByteInt()
	assert.True(t, ok)
	assert.Equal(t, uint16(7), v)

	_, ok = p.Byte()
	assert.False(t, ok)
	_, ok = p.FourByteInt()
	assert.False(t, ok)
	_, ok = p.UTF8String()
	assert.False(t, ok)
	_, ok = p.BinaryData()
	assert.False(t, ok)
	_, ok = p.UserProperty()
	assert.False(t, ok)

	pair, ok := Property{ID: PropUserProperty, Value: UserPropertyValue([]byte("a"), []byte("b"))}.UserProperty()
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), pair.Key)
	assert.Equal(t, []byte("b"), pair.Value)
}

func TestProperty_String(t *testing.T) {
	tests := []struct {
		prop     Property
		expected string
	}{
		{Property{PropPayloadFormatIndicator, ByteValue(1)}, "PayloadFormatIndicator=1"},
		{Property{PropReceiveMaximum, TwoByteIntValue(65535)}, "ReceiveMaximum=65535"},
		{Property{PropSubscriptionIdentifier, FourByteIntValue(200000)}, "SubscriptionIdentifier=200000"},
		{Property{PropContentType, UTF8StringValue([]byte("json"))}, `ContentType="json"`},
		{Property{PropCorrelationData, BinaryDataValue([]byte{0xDE, 0xAD})}, "CorrelationData=0xdead"},
		{Property{PropUserProperty, UserPropertyValue([]byte("k"), []byte("v"))}, `UserProperty="k":"v"`},
		{Property{PropertyID(0x7F), Value{}}, "UNKNOWN(0x7F)=<invalid>"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.prop.String())
		})
	}
}
