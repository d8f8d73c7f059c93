package encoding

// PropertyID represents MQTT 5.0 property identifiers
type PropertyID byte

const (
	PropPayloadFormatIndicator          PropertyID = 0x01
	PropMessageExpiryInterval           PropertyID = 0x02
	PropContentType                     PropertyID = 0x03
	PropResponseTopic                   PropertyID = 0x08
	PropCorrelationData                 PropertyID = 0x09
	PropSubscriptionIdentifier          PropertyID = 0x0B
	PropSessionExpiryInterval           PropertyID = 0x11
	PropAssignedClientIdentifier        PropertyID = 0x12
	PropServerKeepAlive                 PropertyID = 0x13
	PropAuthenticationMethod            PropertyID = 0x15
	PropAuthenticationData              PropertyID = 0x16
	PropRequestProblemInformation       PropertyID = 0x17
	PropWillDelayInterval               PropertyID = 0x18
	PropRequestResponseInformation      PropertyID = 0x19
	PropResponseInformation             PropertyID = 0x1A
	PropServerReference                 PropertyID = 0x1C
	PropReasonString                    PropertyID = 0x1F
	PropReceiveMaximum                  PropertyID = 0x21
	PropTopicAliasMaximum               PropertyID = 0x22
	PropTopicAlias                      PropertyID = 0x23
	PropMaximumQoS                      PropertyID = 0x24
	PropRetainAvailable                 PropertyID = 0x25
	PropUserProperty                    PropertyID = 0x26
	PropMaximumPacketSize               PropertyID = 0x27
	PropWildcardSubscriptionAvailable   PropertyID = 0x28
	PropSubscriptionIdentifierAvailable PropertyID = 0x29
	PropSharedSubscriptionAvailable     PropertyID = 0x2A
)

// PropertyType represents the wire encoding of a property value
type PropertyType byte

const (
	PropertyTypeInvalid     PropertyType = 0
	PropertyTypeByte        PropertyType = 1
	PropertyTypeTwoByteInt  PropertyType = 2
	PropertyTypeFourByteInt PropertyType = 3
	PropertyTypeVarInt      PropertyType = 4
	PropertyTypeUTF8String  PropertyType = 5
	PropertyTypeUTF8Pair    PropertyType = 6
	PropertyTypeBinaryData  PropertyType = 7
)

// propertyTypes maps every property identifier to its wire encoding.
// Sizing, serialization and deserialization all read this table and nothing else.
var propertyTypes = [256]PropertyType{
	PropPayloadFormatIndicator:          PropertyTypeByte,
	PropMessageExpiryInterval:           PropertyTypeFourByteInt,
	PropContentType:                     PropertyTypeUTF8String,
	PropResponseTopic:                   PropertyTypeUTF8String,
	PropCorrelationData:                 PropertyTypeBinaryData,
	PropSubscriptionIdentifier:          PropertyTypeVarInt,
	PropSessionExpiryInterval:           PropertyTypeFourByteInt,
	PropAssignedClientIdentifier:        PropertyTypeUTF8String,
	PropServerKeepAlive:                 PropertyTypeTwoByteInt,
	PropAuthenticationMethod:            PropertyTypeUTF8String,
	PropAuthenticationData:              PropertyTypeBinaryData,
	PropRequestProblemInformation:       PropertyTypeByte,
	PropWillDelayInterval:               PropertyTypeFourByteInt,
	PropRequestResponseInformation:      PropertyTypeByte,
	PropResponseInformation:             PropertyTypeUTF8String,
	PropServerReference:                 PropertyTypeUTF8String,
	PropReasonString:                    PropertyTypeUTF8String,
	PropReceiveMaximum:                  PropertyTypeTwoByteInt,
	PropTopicAliasMaximum:               PropertyTypeTwoByteInt,
	PropTopicAlias:                      PropertyTypeTwoByteInt,
	PropMaximumQoS:                      PropertyTypeByte,
	PropRetainAvailable:                 PropertyTypeByte,
	PropUserProperty:                    PropertyTypeUTF8Pair,
	PropMaximumPacketSize:               PropertyTypeFourByteInt,
	PropWildcardSubscriptionAvailable:   PropertyTypeByte,
	PropSubscriptionIdentifierAvailable: PropertyTypeByte,
	PropSharedSubscriptionAvailable:     PropertyTypeByte,
}

var propertyNames = [256]string{
	PropPayloadFormatIndicator:          "PayloadFormatIndicator",
	PropMessageExpiryInterval:           "MessageExpiryInterval",
	PropContentType:                     "ContentType",
	PropResponseTopic:                   "ResponseTopic",
	PropCorrelationData:                 "CorrelationData",
	PropSubscriptionIdentifier:          "SubscriptionIdentifier",
	PropSessionExpiryInterval:           "SessionExpiryInterval",
	PropAssignedClientIdentifier:        "AssignedClientIdentifier",
	PropServerKeepAlive:                 "ServerKeepAlive",
	PropAuthenticationMethod:            "AuthenticationMethod",
	PropAuthenticationData:              "AuthenticationData",
	PropRequestProblemInformation:       "RequestProblemInformation",
	PropWillDelayInterval:               "WillDelayInterval",
	PropRequestResponseInformation:      "RequestResponseInformation",
	PropResponseInformation:             "ResponseInformation",
	PropServerReference:                 "ServerReference",
	PropReasonString:                    "ReasonString",
	PropReceiveMaximum:                  "ReceiveMaximum",
	PropTopicAliasMaximum:               "TopicAliasMaximum",
	PropTopicAlias:                      "TopicAlias",
	PropMaximumQoS:                      "MaximumQoS",
	PropRetainAvailable:                 "RetainAvailable",
	PropUserProperty:                    "UserProperty",
	PropMaximumPacketSize:               "MaximumPacketSize",
	PropWildcardSubscriptionAvailable:   "WildcardSubscriptionAvailable",
	PropSubscriptionIdentifierAvailable: "SubscriptionIdentifierAvailable",
	PropSharedSubscriptionAvailable:     "SharedSubscriptionAvailable",
}

// Type returns the wire encoding of the identifier, or PropertyTypeInvalid if it is unknown.
func (id PropertyID) Type() PropertyType {
	return propertyTypes[id]
}

// Valid reports whether id is an MQTT 5.0 property identifier.
func (id PropertyID) Valid() bool {
	return propertyTypes[id] != PropertyTypeInvalid
}

// String returns human-readable property ID name
func (id PropertyID) String() string {
	if name := propertyNames[id]; name != "" {
		return name
	}
	return "UNKNOWN"
}

// ValueKind returns the Value case that holds a property of this type.
// Variable Byte Integers are held as four byte integers.
func (t PropertyType) ValueKind() ValueKind {
	switch t {
	case PropertyTypeByte:
		return KindByte
	case PropertyTypeTwoByteInt:
		return KindTwoByteInt
	case PropertyTypeFourByteInt, PropertyTypeVarInt:
		return KindFourByteInt
	case PropertyTypeUTF8String:
		return KindUTF8String
	case PropertyTypeUTF8Pair:
		return KindUserProperty
	case PropertyTypeBinaryData:
		return KindBinaryData
	}
	return KindInvalid
}

func (t PropertyType) String() string {
	switch t {
	case PropertyTypeByte:
		return "Byte"
	case PropertyTypeTwoByteInt:
		return "TwoByteInteger"
	case PropertyTypeFourByteInt:
		return "FourByteInteger"
	case PropertyTypeVarInt:
		return "VariableByteInteger"
	case PropertyTypeUTF8String:
		return "UTF8String"
	case PropertyTypeUTF8Pair:
		return "UTF8StringPair"
	case PropertyTypeBinaryData:
		return "BinaryData"
	}
	return "Invalid"
}
