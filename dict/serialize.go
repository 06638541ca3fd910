package dict

import (
	"encoding/binary"
	"hash/crc32"
)

// serializeMagic tags the blob format so Deserialize can reject
// unrelated input outright instead of misreading its first bytes as sizes.
const serializeMagic = 0x4f444b31 // "ODK1"

// Serialize produces a self-describing blob encoding d's key size, value
// size, and packed buffer, framed the way the teacher's write-ahead log
// frames a single record: a length-checked payload followed by a trailing
// CRC32 over everything that precedes it.
func Serialize(d Dict) []byte {
	scratch := make([]byte, binary.MaxVarintLen64)
	body := make([]byte, 0, 4+3*binary.MaxVarintLen64+len(d.buf))

	var magic [4]byte
	binary.BigEndian.PutUint32(magic[:], serializeMagic)
	body = append(body, magic[:]...)

	n := binary.PutUvarint(scratch, uint64(d.keySize))
	body = append(body, scratch[:n]...)
	n = binary.PutUvarint(scratch, uint64(d.valueSize))
	body = append(body, scratch[:n]...)
	n = binary.PutUvarint(scratch, uint64(len(d.buf)))
	body = append(body, scratch[:n]...)
	body = append(body, d.buf...)

	sum := crc32.ChecksumIEEE(body)
	var crc [4]byte
	binary.BigEndian.PutUint32(crc[:], sum)
	return append(body, crc[:]...)
}

// Deserialize parses a blob produced by Serialize. Malformed input — bad
// magic, truncated varints, a buffer length that isn't a multiple of the
// declared block size, or a CRC mismatch — fails with ErrBadArgument.
func Deserialize(blob []byte) (Dict, error) {
	if len(blob) < 4+4 {
		return Dict{}, badArgf("dict: blob too short")
	}
	body, wantCRC := blob[:len(blob)-4], blob[len(blob)-4:]
	if crc32.ChecksumIEEE(body) != binary.BigEndian.Uint32(wantCRC) {
		return Dict{}, badArgf("dict: blob CRC mismatch")
	}

	if len(body) < 4 || binary.BigEndian.Uint32(body[:4]) != serializeMagic {
		return Dict{}, badArgf("dict: blob has wrong magic")
	}
	rest := body[4:]

	keySize, n := binary.Uvarint(rest)
	if n <= 0 {
		return Dict{}, badArgf("dict: blob truncated reading key size")
	}
	rest = rest[n:]

	valueSize, n := binary.Uvarint(rest)
	if n <= 0 {
		return Dict{}, badArgf("dict: blob truncated reading value size")
	}
	rest = rest[n:]

	bufLen, n := binary.Uvarint(rest)
	if n <= 0 {
		return Dict{}, badArgf("dict: blob truncated reading buffer length")
	}
	rest = rest[n:]

	if keySize == 0 || valueSize == 0 {
		return Dict{}, badArgf("dict: blob declares non-positive key/value size")
	}
	if uint64(len(rest)) != bufLen {
		return Dict{}, badArgf("dict: blob buffer length mismatch: declared %d, have %d", bufLen, len(rest))
	}

	d, err := FromBuffer(int(keySize), int(valueSize), append([]byte(nil), rest...))
	if err != nil {
		return Dict{}, err
	}
	return d, nil
}
