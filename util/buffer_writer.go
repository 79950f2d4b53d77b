package util

import "math"

func WriteBytes(buf []byte, from []byte) []byte {
	return append(buf, from...)
}

func WriteUB2(buf []byte, i uint16) []byte {
	buf = append(buf, byte((i>>8)&0xFF))
	buf = append(buf, byte(i&0xFF))
	return buf
}

func WriteUB4(buf []byte, i uint32) []byte {
	buf = append(buf, byte((i>>24)&0xFF))
	buf = append(buf, byte((i>>16)&0xFF))
	buf = append(buf, byte((i>>8)&0xFF))
	buf = append(buf, byte(i&0xFF))
	return buf
}

func WriteUB8(buf []byte, i uint64) []byte {
	buf = append(buf, byte((i>>56)&0xFF))
	buf = append(buf, byte((i>>48)&0xFF))
	buf = append(buf, byte((i>>40)&0xFF))
	buf = append(buf, byte((i>>32)&0xFF))
	buf = append(buf, byte((i>>24)&0xFF))
	buf = append(buf, byte((i>>16)&0xFF))
	buf = append(buf, byte((i>>8)&0xFF))
	buf = append(buf, byte(i&0xFF))
	return buf
}

// PutUB2 在 offset 处原地写入，返回下一个游标
func PutUB2(buf []byte, offset int, i uint16) int {
	buf[offset] = byte(i >> 8)
	buf[offset+1] = byte(i)
	return offset + 2
}

func PutUB4(buf []byte, offset int, i uint32) int {
	buf[offset] = byte(i >> 24)
	buf[offset+1] = byte(i >> 16)
	buf[offset+2] = byte(i >> 8)
	buf[offset+3] = byte(i)
	return offset + 4
}

func PutUB8(buf []byte, offset int, i uint64) int {
	for n := 7; n >= 0; n-- {
		buf[offset+n] = byte(i)
		i >>= 8
	}
	return offset + 8
}

func PutInt16(buf []byte, offset int, v int16) int {
	return PutUB2(buf, offset, uint16(v))
}

func PutInt32(buf []byte, offset int, v int32) int {
	return PutUB4(buf, offset, uint32(v))
}

func PutInt64(buf []byte, offset int, v int64) int {
	return PutUB8(buf, offset, uint64(v))
}

func PutFloat32(buf []byte, offset int, v float32) int {
	return PutUB4(buf, offset, math.Float32bits(v))
}

func PutFloat64(buf []byte, offset int, v float64) int {
	return PutUB8(buf, offset, math.Float64bits(v))
}

func ConvertInt4Bytes(i int32) []byte {
	return WriteUB4(make([]byte, 0, 4), uint32(i))
}

func ConvertBool2Byte(boolValue bool) byte {
	if boolValue {
		return 1
	}
	return 0
}
