package raid5

// Write copies count logical sectors from buf to secNr, in ascending
// logical order. It requires the volume to be OK or Degraded and
// 0 <= secNr, secNr+count <= Size().
func (v *Volume) Write(secNr int, buf []byte, count int) (bool, error) {
	if err := v.checkBounds(secNr, count); err != nil {
		return false, err
	}

	for i := 0; i < count; i++ {
		src := buf[i*SectorSize : (i+1)*SectorSize]
		k := secNr + i

		ok := false
		if v.state == OK {
			ok = v.writeNormal(k, src)
		}

		if !ok && v.state == Degraded {
			ok = v.writeDegraded(k, src)
		}

		if !ok {
			err := ioFailure(v.failedDevice)
			v.demoteToFailed(err)
			return false, err
		}
	}

	return true, nil
}

// writeNormal performs a read-modify-write-by-reconstruction: the new
// parity is the XOR of every device in the row except the data and
// parity devices, XORed with the new data.
func (v *Volume) writeNormal(k int, data []byte) bool {
	dataDev, dataOff := dataLocation(k, v.n)
	parityDev, parityOff := parityLocation(k, v.n)

	var parity, buf [SectorSize]byte
	for dev := 0; dev < v.n; dev++ {
		if dev == dataDev || dev == parityDev {
			continue
		}
		if !v.dev.readSector(dev, dataOff, buf[:]) {
			v.demoteToDegraded(dev, ioFailure(dev))
			return false
		}
		for i := range parity {
			parity[i] ^= buf[i]
		}
	}
	for i := range parity {
		parity[i] ^= data[i]
	}

	if !v.dev.writeSector(dataDev, dataOff, data) {
		v.demoteToDegraded(dataDev, ioFailure(dataDev))
		return false
	}
	if !v.dev.writeSector(parityDev, parityOff, parity[:]) {
		v.demoteToDegraded(parityDev, ioFailure(parityDev))
		return false
	}

	return true
}

// writeDegraded handles a write while one device is presumed failed.
// There are three cases: the parity device itself is the failed one,
// the target data device is the failed one, or some other device is
// failed and must be reconstructed before a new parity can be formed.
func (v *Volume) writeDegraded(k int, data []byte) bool {
	dataDev, dataOff := dataLocation(k, v.n)
	parityDev, parityOff := parityLocation(k, v.n)
	failed := v.failedDevice

	switch failed {
	case parityDev:
		// Parity device is the failed one: new data is the only thing
		// that needs writing.
		return v.dev.writeSector(dataDev, dataOff, data)

	case dataDev:
		// Target data device is the failed one: the new data lives
		// only in the recomputed parity.
		var parity [SectorSize]byte
		if !v.xorExcluding(dataOff, parity[:], dataDev, parityDev) {
			return false
		}
		for i := range parity {
			parity[i] ^= data[i]
		}
		return v.dev.writeSector(parityDev, parityOff, parity[:])

	default:
		// Some unrelated device is failed: account for its unknown
		// contents by reconstructing it first.
		var reconstructedFailed [SectorSize]byte
		if !v.xorExcluding(dataOff, reconstructedFailed[:], failed) {
			return false
		}

		var parity [SectorSize]byte
		if !v.xorExcluding(dataOff, parity[:], failed, dataDev, parityDev) {
			return false
		}
		for i := range parity {
			parity[i] ^= data[i]
			parity[i] ^= reconstructedFailed[i]
		}

		if !v.dev.writeSector(dataDev, dataOff, data) {
			return false
		}
		return v.dev.writeSector(parityDev, parityOff, parity[:])
	}
}

// xorExcluding XORs every device's sector at offset into out, skipping
// the devices named in exclude. Its offset argument is always a row
// offset shared by data and parity sectors of the same stripe.
func (v *Volume) xorExcluding(offset int, out []byte, exclude ...int) bool {
	for i := range out {
		out[i] = 0
	}

	var buf [SectorSize]byte
	for dev := 0; dev < v.n; dev++ {
		if contains(exclude, dev) {
			continue
		}
		if !v.dev.readSector(dev, offset, buf[:]) {
			return false
		}
		for i := range out {
			out[i] ^= buf[i]
		}
	}
	return true
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
