package store

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns stored values into bytes and back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// CBOR encodes values with RFC 8949 core deterministic encoding. Times keep
// nanosecond precision.
type CBOR struct{}

var cborEnc = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

func (CBOR) Marshal(v any) ([]byte, error)      { return cborEnc.Marshal(v) }
func (CBOR) Unmarshal(data []byte, v any) error { return cbor.Unmarshal(data, v) }
func (CBOR) Name() string                       { return "cbor" }

// MessagePack encodes values with msgpack.
type MessagePack struct{}

func (MessagePack) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (MessagePack) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (MessagePack) Name() string                       { return "msgpack" }
