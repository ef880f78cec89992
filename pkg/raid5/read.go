package raid5

// Read copies count logical sectors starting at secNr into buf, in
// ascending logical order. It requires the volume to be OK or
// Degraded and 0 <= secNr, secNr+count <= Size(). On failure the state
// has already been updated but buf's contents from that point on must
// be discarded by the caller.
func (v *Volume) Read(secNr int, buf []byte, count int) (bool, error) {
	if err := v.checkBounds(secNr, count); err != nil {
		return false, err
	}

	for i := 0; i < count; i++ {
		dest := buf[i*SectorSize : (i+1)*SectorSize]
		k := secNr + i

		if v.state == OK {
			if v.readNormal(k, dest) {
				continue
			}
			device, _ := dataLocation(k, v.n)
			v.demoteToDegraded(device, ioFailure(device))
		}

		if !v.readDegraded(k, dest) {
			err := ioFailure(v.failedDevice)
			v.demoteToFailed(err)
			return false, err
		}
	}

	return true, nil
}

// readNormal reads sector k directly, assuming all devices healthy.
func (v *Volume) readNormal(k int, dest []byte) bool {
	device, offset := dataLocation(k, v.n)
	return v.dev.readSector(device, offset, dest)
}

// readDegraded reads sector k while the volume is degraded: a direct
// read if the target device is healthy, otherwise XOR reconstruction.
func (v *Volume) readDegraded(k int, dest []byte) bool {
	device, offset := dataLocation(k, v.n)
	if device != v.failedDevice {
		return v.dev.readSector(device, offset, dest)
	}
	return v.reconstruct(offset, dest)
}

// reconstruct XORs every surviving device's sector at offset into
// dest, recovering the contents of the failed device at that offset.
func (v *Volume) reconstruct(offset int, dest []byte) bool {
	for i := range dest {
		dest[i] = 0
	}

	var buf [SectorSize]byte
	for dev := 0; dev < v.n; dev++ {
		if dev == v.failedDevice {
			continue
		}
		if !v.dev.readSector(dev, offset, buf[:]) {
			return false
		}
		for i := range dest {
			dest[i] ^= buf[i]
		}
	}
	return true
}
