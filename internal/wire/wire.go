package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"
)

const (
	version   byte = 1
	kindEntry byte = 1

	flagExpiry byte = 1 << 0

	hdrLen = 4 + 1 + 1 + 1 + 8 + 4 + 4
)

var (
	ErrCorrupt = errors.New("memocache: corrupt entry")
	magic4     = [...]byte{'M', 'E', 'M', 'O'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | kind(1) | flags(1) | expiry sec(i64 be) | expiry nsec(u32 be) | vlen(u32 be) | payload(vlen)
//
// expiry is meaningful only when flags has flagExpiry set; a zero time is
// encoded without the flag so it round-trips as "never expires".
func EncodeEntry(expiry time.Time, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)

	var flags byte
	var sec int64
	var nsec uint32
	if !expiry.IsZero() {
		flags |= flagExpiry
		sec, nsec = expiry.Unix(), uint32(expiry.Nanosecond())
	}
	buf.WriteByte(flags)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], uint64(sec))
	buf.Write(u8[:])
	binary.BigEndian.PutUint32(u4[:], nsec)
	buf.Write(u4[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeEntry returns the expiry (zero when absent) and a payload slice
// aliasing b. Trailing bytes are rejected.
func DecodeEntry(b []byte) (expiry time.Time, payload []byte, err error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return time.Time{}, nil, ErrCorrupt
	}
	flags := b[6]
	if flags&^flagExpiry != 0 {
		return time.Time{}, nil, ErrCorrupt
	}

	off := 7
	sec := int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8
	nsec := binary.BigEndian.Uint32(b[off : off+4])
	off += 4
	if nsec >= 1e9 {
		return time.Time{}, nil, ErrCorrupt
	}

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off {
		return time.Time{}, nil, ErrCorrupt
	}

	if flags&flagExpiry != 0 {
		expiry = time.Unix(sec, int64(nsec))
	}
	return expiry, b[off : off+vlen], nil
}
