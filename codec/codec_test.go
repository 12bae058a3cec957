package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type point struct {
	X  int       `json:"x" msgpack:"x" cbor:"x"`
	Y  int       `json:"y" msgpack:"y" cbor:"y"`
	At time.Time `json:"at" msgpack:"at" cbor:"at"`
}

func roundTrip[V any](t *testing.T, c Codec[V], in V) V {
	t.Helper()
	b, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return out
}

func TestStructCodecs(t *testing.T) {
	in := point{X: 1, Y: -2, At: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	codecs := map[string]Codec[point]{
		"json":      JSON[point]{},
		"msgpack":   Msgpack[point]{},
		"cbor":      MustCBOR[point](false),
		"cbor-det":  MustCBOR[point](true),
		"limit-big": Limit[point]{Inner: JSON[point]{}, MaxDecode: 1 << 10},
	}
	for name, c := range codecs {
		out := roundTrip(t, c, in)
		if out.X != in.X || out.Y != in.Y || !out.At.Equal(in.At) {
			t.Fatalf("%s: got %+v want %+v", name, out, in)
		}
	}
}

func TestCBORDeterministicMapOrder(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	a, err := c.Encode(map[string]int{"b": 2, "a": 1, "c": 3})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		b, err := c.Encode(map[string]int{"c": 3, "a": 1, "b": 2})
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a, b) {
			t.Fatalf("deterministic encoding differs: %x vs %x", a, b)
		}
	}
}

func TestLimitRejectsOversized(t *testing.T) {
	c := Limit[string]{Inner: String{}, MaxDecode: 3}
	if _, err := c.Decode([]byte("abcd")); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected too large error, got %v", err)
	}
	if v, err := c.Decode([]byte("abc")); err != nil || v != "abc" {
		t.Fatalf("Decode within limit: v=%q err=%v", v, err)
	}
	unlimited := Limit[string]{Inner: String{}}
	if _, err := unlimited.Decode(bytes.Repeat([]byte("x"), 4096)); err != nil {
		t.Fatalf("MaxDecode=0 should disable limit: %v", err)
	}
}

func TestRawCodecs(t *testing.T) {
	if got := roundTrip[string](t, String{}, "héllo"); got != "héllo" {
		t.Fatalf("String: got %q", got)
	}
	if got := roundTrip[[]byte](t, Bytes{}, []byte{1, 2, 3}); !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("Bytes: got %v", got)
	}
}

func TestProtobuf(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	in := wrapperspb.String("memo")
	out := roundTrip[*wrapperspb.StringValue](t, c, in)
	if !proto.Equal(in, out) {
		t.Fatalf("got %v want %v", out, in)
	}

	var zero Protobuf[*wrapperspb.StringValue]
	if _, err := zero.Decode(nil); err == nil {
		t.Fatalf("expected error for nil constructor")
	}
}
