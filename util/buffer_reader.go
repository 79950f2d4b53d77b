package util

import "math"

// All multi-byte values on the host wire are big-endian.

func ReadUB2(buff []byte, cursor int) (int, uint16) {
	i := uint16(buff[cursor]) << 8
	i |= uint16(buff[cursor+1])
	return cursor + 2, i
}

func ReadUB4(buff []byte, cursor int) (int, uint32) {
	i := uint32(buff[cursor]) << 24
	i |= uint32(buff[cursor+1]) << 16
	i |= uint32(buff[cursor+2]) << 8
	i |= uint32(buff[cursor+3])
	return cursor + 4, i
}

func ReadUB8(buff []byte, cursor int) (int, uint64) {
	i := uint64(buff[cursor]) << 56
	i |= uint64(buff[cursor+1]) << 48
	i |= uint64(buff[cursor+2]) << 40
	i |= uint64(buff[cursor+3]) << 32
	i |= uint64(buff[cursor+4]) << 24
	i |= uint64(buff[cursor+5]) << 16
	i |= uint64(buff[cursor+6]) << 8
	i |= uint64(buff[cursor+7])
	return cursor + 8, i
}

func ReadInt16(buff []byte, cursor int) (int, int16) {
	cursor, u := ReadUB2(buff, cursor)
	return cursor, int16(u)
}

func ReadInt32(buff []byte, cursor int) (int, int32) {
	cursor, u := ReadUB4(buff, cursor)
	return cursor, int32(u)
}

func ReadInt64(buff []byte, cursor int) (int, int64) {
	cursor, u := ReadUB8(buff, cursor)
	return cursor, int64(u)
}

func ReadFloat32(buff []byte, cursor int) (int, float32) {
	cursor, u := ReadUB4(buff, cursor)
	return cursor, math.Float32frombits(u)
}

func ReadFloat64(buff []byte, cursor int) (int, float64) {
	cursor, u := ReadUB8(buff, cursor)
	return cursor, math.Float64frombits(u)
}

// ReadUB2Byte2Int 读取 2 字节长度前缀
func ReadUB2Byte2Int(buff []byte) uint16 {
	_, rs := ReadUB2(buff, 0)
	return rs
}

// ReadUB4Byte2Int 读取 4 字节长度前缀
func ReadUB4Byte2Int(buff []byte) int {
	_, rs := ReadUB4(buff, 0)
	return int(rs)
}

// ReadBigEndian 把 1..8 字节的大端序补码解释为有符号整数
func ReadBigEndian(buff []byte) int64 {
	if len(buff) == 0 {
		return 0
	}
	var v int64
	if buff[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range buff {
		v = v<<8 | int64(b)
	}
	return v
}
