package raid5

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceRecordRoundTrip(t *testing.T) {
	rec := serviceRecord{timestamp: 42, failedDevice: 2, state: byte(Degraded)}
	buf := encodeServiceRecord(rec)
	assert.Len(t, buf, SectorSize)

	got := decodeServiceRecord(buf[:])
	assert.Equal(t, rec, got)
}

func TestServiceRecordNoFailedDeviceSentinel(t *testing.T) {
	rec := serviceRecord{timestamp: 1, failedDevice: noFailedDevice, state: byte(OK)}
	buf := encodeServiceRecord(rec)
	got := decodeServiceRecord(buf[:])
	assert.Equal(t, byte(0xFF), got.failedDevice)
}
