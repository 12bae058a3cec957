// Package keys turns composite key tuples into canonical strings.
//
// Grammar:
//
//	tuple    = "(" [ fragment { "," fragment } ] ")"
//	fragment = tuple | quoted string | integer | "f" float | "true" | "false"
//	         | "nil" | "b" hex(bytes) | "c" hex(canonical CBOR)
//
// Strings are Go-quoted, so no fragment can be mistaken for another or for
// tuple punctuation. Equal tuples always encode to equal strings.
package keys

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Tuple is implemented by composite key types nested inside other keys.
type Tuple interface {
	Fragments() []any
}

var canonical cbor.EncMode

func init() {
	eo := cbor.CoreDetEncOptions()
	eo.Time = cbor.TimeRFC3339Nano
	em, err := eo.EncMode()
	if err != nil {
		panic(err)
	}
	canonical = em
}

// Encode returns the canonical encoding of the tuple formed by frags.
func Encode(frags []any) (string, error) {
	var b strings.Builder
	if err := writeTuple(&b, frags); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeTuple(b *strings.Builder, frags []any) error {
	b.WriteByte('(')
	for i, f := range frags {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeFragment(b, f); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}

func writeFragment(b *strings.Builder, f any) error {
	switch v := f.(type) {
	case nil:
		b.WriteString("nil")
	case string:
		b.WriteString(strconv.Quote(v))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case int:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int8:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int16:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int32:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint8:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint16:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint32:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case float32:
		b.WriteByte('f')
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	case float64:
		b.WriteByte('f')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case []byte:
		b.WriteByte('b')
		b.WriteString(hex.EncodeToString(v))
	case Tuple:
		return writeTuple(b, v.Fragments())
	case []any:
		return writeTuple(b, v)
	default:
		raw, err := canonical.Marshal(v)
		if err != nil {
			return fmt.Errorf("keys: fragment of type %T: %w", f, err)
		}
		b.WriteByte('c')
		b.WriteString(hex.EncodeToString(raw))
	}
	return nil
}
