package codec

// 十位组（declet）与三位十进制数字之间的转换，按 IEEE 754-2008 DPD 编码表

// decodeDeclet 把 10 位 declet 解码为 0..999
func decodeDeclet(d uint16) int {
	b := func(i uint) uint16 { return (d >> i) & 1 }
	var d2, d1, d0 uint16
	if b(3) == 0 {
		d2 = (d >> 7) & 7
		d1 = (d >> 4) & 7
		d0 = d & 7
	} else {
		switch (d >> 1) & 3 {
		case 0:
			d2 = (d >> 7) & 7
			d1 = (d >> 4) & 7
			d0 = 8 | b(0)
		case 1:
			d2 = (d >> 7) & 7
			d1 = 8 | b(4)
			d0 = b(6)<<2 | b(5)<<1 | b(0)
		case 2:
			d2 = 8 | b(7)
			d1 = (d >> 4) & 7
			d0 = b(9)<<2 | b(8)<<1 | b(0)
		default:
			switch (d >> 5) & 3 {
			case 0:
				d2 = 8 | b(7)
				d1 = 8 | b(4)
				d0 = b(9)<<2 | b(8)<<1 | b(0)
			case 1:
				d2 = 8 | b(7)
				d1 = b(9)<<2 | b(8)<<1 | b(4)
				d0 = 8 | b(0)
			case 2:
				d2 = (d >> 7) & 7
				d1 = 8 | b(4)
				d0 = 8 | b(0)
			default:
				d2 = 8 | b(7)
				d1 = 8 | b(4)
				d0 = 8 | b(0)
			}
		}
	}
	return int(d2)*100 + int(d1)*10 + int(d0)
}

// encodeDeclet 把 0..999 编码为 10 位 declet
func encodeDeclet(v int) uint16 {
	d2 := uint16(v / 100)
	d1 := uint16(v / 10 % 10)
	d0 := uint16(v % 10)
	bit := func(x uint16, i uint) uint16 { return (x >> i) & 1 }

	a, e, i := bit(d2, 3), bit(d1, 3), bit(d0, 3)
	bcd := d2 & 7
	fgh := d1 & 7
	jkm := d0 & 7
	d := bit(d2, 0)
	h := bit(d1, 0)
	m := bit(d0, 0)
	fg := fgh >> 1
	jk := jkm >> 1

	switch a<<2 | e<<1 | i {
	case 0:
		return bcd<<7 | fgh<<4 | jkm
	case 1:
		return bcd<<7 | fgh<<4 | 0x8 | m
	case 2:
		return bcd<<7 | jk<<5 | h<<4 | 0xA | m
	case 3:
		return bcd<<7 | 0x2<<5 | h<<4 | 0xE | m
	case 4:
		return jk<<8 | d<<7 | fgh<<4 | 0xC | m
	case 5:
		return fg<<8 | d<<7 | 0x1<<5 | h<<4 | 0xE | m
	case 6:
		return jk<<8 | d<<7 | h<<4 | 0xE | m
	default:
		return d<<7 | 0x3<<5 | h<<4 | 0xE | m
	}
}
