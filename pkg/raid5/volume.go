package raid5

import "fmt"

// noFailed is the in-memory sentinel meaning "no device index recorded".
const noFailed = -1

// Volume is a software RAID-5 volume built on an injected BlockDevice.
// A Volume is not safe for concurrent use: callers must not invoke two
// public operations on the same Volume at the same time.
type Volume struct {
	dev BlockDevice

	n int // device count
	s int // per-device sector count

	state        State
	timestamp    byte
	failedDevice int // noFailed if none

	lastErr error
}

// NewVolume returns a Volume in the STOPPED state, ready for Start.
func NewVolume() *Volume {
	return &Volume{failedDevice: noFailed}
}

// FailedDevice reports the index of the device presumed failed, or -1
// if none (only meaningful while Status() == Degraded).
func (v *Volume) FailedDevice() int {
	return v.failedDevice
}

// LastError reports the most recent device I/O error observed, or nil.
func (v *Volume) LastError() error {
	return v.lastErr
}

// Status returns the volume's current state.
func (v *Volume) Status() State {
	return v.state
}

// Size returns the number of user-addressable logical sectors.
func (v *Volume) Size() int {
	return (v.n - 1) * (v.s - 1)
}

func validateGeometry(dev BlockDevice) error {
	if dev.Devices < MinDevices || dev.Devices > MaxDevices {
		return ErrInvalidDeviceCount
	}
	if dev.Sectors < MinSectors || dev.Sectors > MaxSectors {
		return ErrInvalidSectorCount
	}
	return nil
}

// Create initializes a fresh volume: it writes the initial service
// record (timestamp 0, no failed device, state STOPPED) to the last
// sector of every device. It tolerates at most one device failing to
// accept the write; a second failure fails Create. Create never leaves
// the volume started.
func Create(dev BlockDevice) (bool, error) {
	if err := validateGeometry(dev); err != nil {
		return false, err
	}

	buf := encodeServiceRecord(serviceRecord{
		timestamp:    0,
		failedDevice: noFailedDevice,
		state:        byte(Stopped),
	})

	failures := 0
	for i := 0; i < dev.Devices; i++ {
		if !dev.writeSector(i, dev.Sectors-1, buf[:]) {
			failures++
			if failures > 1 {
				return false, ErrCreateFailed
			}
		}
	}
	return true, nil
}

// Start attempts to bring the volume online, reconstructing its last
// known state from the per-device service records. It never mutates
// on-disk state.
func (v *Volume) Start(dev BlockDevice) (State, error) {
	if err := validateGeometry(dev); err != nil {
		return Failed, err
	}

	v.dev = dev
	v.n = dev.Devices
	v.s = dev.Sectors
	v.failedDevice = noFailed
	v.lastErr = nil

	records := make([]serviceRecord, dev.Devices)
	readable := make([]bool, dev.Devices)

	failed := 0
	firstFailed := noFailed

	for i := 0; i < quorumDevices; i++ {
		rec, ok := v.readServiceRecord(i)
		if !ok {
			failed++
			if firstFailed == noFailed {
				firstFailed = i
			}
			if failed > 1 {
				v.state = Failed
				return v.state, nil
			}
			continue
		}
		records[i] = rec
		readable[i] = true

		if State(rec.state) == Failed {
			v.state = Failed
			return v.state, nil
		}
	}

	goodTimestamp, ok := v.resolveQuorum(records, readable, failed, firstFailed)
	if !ok {
		v.state = Failed
		return v.state, nil
	}

	if !v.checkAdditionalDevices(quorumDevices, goodTimestamp, failed > 0) {
		return v.state, nil
	}

	v.timestamp = goodTimestamp
	if v.failedDevice == noFailed {
		v.state = OK
	} else {
		v.state = Degraded
	}
	return v.state, nil
}

// resolveQuorum decides the authoritative timestamp from the first
// three devices' service records. It sets v.failedDevice as a side
// effect on the degraded paths; the caller sets v.state.
func (v *Volume) resolveQuorum(records []serviceRecord, readable []bool, failed, firstFailed int) (goodTimestamp byte, ok bool) {
	if failed == 1 {
		// Exactly one of the first three was unreadable: the other two
		// must agree, or the volume is FAILED.
		var others []byte
		for i := 0; i < quorumDevices; i++ {
			if i == firstFailed {
				continue
			}
			others = append(others, records[i].timestamp)
		}
		if others[0] != others[1] {
			return 0, false
		}
		v.failedDevice = firstFailed
		return others[0], true
	}

	// All three were readable.
	t0, t1, t2 := records[0].timestamp, records[1].timestamp, records[2].timestamp
	switch {
	case t0 == t1 && t0 == t2:
		return t0, true
	case t0 == t1:
		v.failedDevice = 2
		return t0, true
	case t0 == t2:
		v.failedDevice = 1
		return t0, true
	case t1 == t2:
		v.failedDevice = 0
		return t1, true
	default:
		return 0, false
	}
}

// checkAdditionalDevices validates devices [start, n) against the
// authoritative timestamp, escalating to DEGRADED or FAILED as
// dissent accumulates. Returns false if Start should return early
// (v.state already set to FAILED).
func (v *Volume) checkAdditionalDevices(start int, goodTimestamp byte, alreadyOneFailed bool) bool {
	failed := 0
	if alreadyOneFailed {
		failed = 1
	}

	for i := start; i < v.n; i++ {
		rec, ok := v.readServiceRecord(i)
		if !ok {
			failed++
			v.failedDevice = i
			if failed > 1 {
				v.state = Failed
				return false
			}
			continue
		}

		if rec.timestamp != goodTimestamp {
			failed++
			v.failedDevice = i
		}

		if failed > 1 {
			v.state = Failed
			return false
		}
	}
	return true
}

func (v *Volume) readServiceRecord(device int) (serviceRecord, bool) {
	var buf [SectorSize]byte
	if !v.dev.readSector(device, v.s-1, buf[:]) {
		return serviceRecord{}, false
	}
	return decodeServiceRecord(buf[:]), true
}

// Stop increments the on-disk timestamp and best-effort writes the
// updated service record to every non-failed device, then transitions
// to STOPPED. Write failures during Stop are ignored.
func (v *Volume) Stop() State {
	v.timestamp++

	buf := encodeServiceRecord(serviceRecord{
		timestamp:    v.timestamp,
		failedDevice: v.encodedFailedDevice(),
		state:        byte(v.state),
	})

	for i := 0; i < v.n; i++ {
		if i == v.failedDevice {
			continue
		}
		v.dev.writeSector(i, v.s-1, buf[:])
	}

	v.state = Stopped
	return v.state
}

func (v *Volume) encodedFailedDevice() byte {
	if v.failedDevice == noFailed {
		return noFailedDevice
	}
	return byte(v.failedDevice)
}

func (v *Volume) checkBounds(secNr, count int) error {
	if v.state != OK && v.state != Degraded {
		return ErrNotStarted
	}
	if secNr < 0 || count < 0 || secNr+count > v.Size() {
		return ErrOutOfRange
	}
	return nil
}

func (v *Volume) demoteToDegraded(failedDevice int, err error) {
	v.state = Degraded
	v.failedDevice = failedDevice
	v.lastErr = err
}

func (v *Volume) demoteToFailed(err error) {
	v.state = Failed
	v.lastErr = err
}

func ioFailure(device int) error {
	return fmt.Errorf("raid5: device %d failed I/O", device)
}
