package raid5

// dataLocation maps a logical sector number k to the (device, offset)
// pair holding its data, using rotating left-symmetric parity: within
// row = k/(N-1), the parity device is row mod N, and data columns skip
// over it in ascending order.
//
// The caller must ensure 0 <= k < (n-1)*(s-1); behavior is undefined
// otherwise (the public Read/Write gate is responsible for bounds
// checking).
func dataLocation(k, n int) (device, offset int) {
	row := k / (n - 1)
	col := k % (n - 1)

	parity := row % n
	if col >= parity {
		col++
	}

	return col, row
}

// parityLocation maps a logical sector number k to the (device, offset)
// pair holding the parity of its row.
func parityLocation(k, n int) (device, offset int) {
	row := k / (n - 1)
	return row % n, row
}
