package util

// ReadBits 从 buff 的第 start 位（自最高位起算）读取 n 位，n <= 64
func ReadBits(buff []byte, start int, n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		pos := start + i
		bit := (buff[pos>>3] >> uint(7-pos&7)) & 1
		v = v<<1 | uint64(bit)
	}
	return v
}

// WriteBits 把 v 的低 n 位写入 buff 的第 start 位起
func WriteBits(buff []byte, start int, n int, v uint64) {
	for i := 0; i < n; i++ {
		pos := start + i
		bit := byte(v>>uint(n-1-i)) & 1
		mask := byte(1) << uint(7-pos&7)
		if bit == 1 {
			buff[pos>>3] |= mask
		} else {
			buff[pos>>3] &^= mask
		}
	}
}
