package raid5

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func startedVolume(t *testing.T, n, s int) (*Volume, *fakeArray) {
	t.Helper()
	a := newFakeArray(n, s)
	ok, err := Create(a.blockDevice())
	require.NoError(t, err)
	require.True(t, ok)

	v := NewVolume()
	state, err := v.Start(a.blockDevice())
	require.NoError(t, err)
	require.Equal(t, OK, state)
	return v, a
}

func TestCreateRejectsBadGeometry(t *testing.T) {
	_, err := Create(BlockDevice{Devices: 2, Sectors: 2048})
	require.ErrorIs(t, err, ErrInvalidDeviceCount)

	_, err = Create(BlockDevice{Devices: 3, Sectors: 100})
	require.ErrorIs(t, err, ErrInvalidSectorCount)
}

func TestCreateTakesAtMostOneWriteFailure(t *testing.T) {
	a := newFakeArray(4, 2048)
	a.failWrite[1] = true
	ok, err := Create(a.blockDevice())
	require.NoError(t, err)
	require.True(t, ok)

	a2 := newFakeArray(4, 2048)
	a2.failWrite[1] = true
	a2.failWrite[2] = true
	_, err = Create(a2.blockDevice())
	require.ErrorIs(t, err, ErrCreateFailed)
}

func TestStartFreshVolumeIsOK(t *testing.T) {
	startedVolume(t, 3, 2048)
}

func TestStartConsensusTwoAgreeOneDisagree(t *testing.T) {
	// E6(a)-style: three devices agree at create time, then we poke a
	// mismatching timestamp directly into device 1's service record.
	a := newFakeArray(4, 2048)
	_, err := Create(a.blockDevice())
	require.NoError(t, err)

	buf := encodeServiceRecord(serviceRecord{timestamp: 9, failedDevice: noFailedDevice, state: byte(Stopped)})
	a.write(1, a.s-1, buf[:], 1)

	v := NewVolume()
	state, err := v.Start(a.blockDevice())
	require.NoError(t, err)
	require.Equal(t, Degraded, state)
	require.Equal(t, 1, v.FailedDevice())
}

func TestStartConsensusOneUnreadableTwoAgree(t *testing.T) {
	a := newFakeArray(4, 2048)
	_, err := Create(a.blockDevice())
	require.NoError(t, err)
	a.failRead[0] = true

	v := NewVolume()
	state, err := v.Start(a.blockDevice())
	require.NoError(t, err)
	require.Equal(t, Degraded, state)
	require.Equal(t, 0, v.FailedDevice())
}

func TestStartConsensusAllThreeDisagree(t *testing.T) {
	a := newFakeArray(4, 2048)
	_, err := Create(a.blockDevice())
	require.NoError(t, err)

	for i, ts := range []byte{1, 2, 3} {
		buf := encodeServiceRecord(serviceRecord{timestamp: ts, failedDevice: noFailedDevice, state: byte(Stopped)})
		a.write(i, a.s-1, buf[:], 1)
	}

	v := NewVolume()
	state, err := v.Start(a.blockDevice())
	require.NoError(t, err)
	require.Equal(t, Failed, state)
}

func TestStartConsensusTwoUnreadable(t *testing.T) {
	a := newFakeArray(4, 2048)
	_, err := Create(a.blockDevice())
	require.NoError(t, err)
	a.failRead[0] = true
	a.failRead[1] = true

	v := NewVolume()
	state, err := v.Start(a.blockDevice())
	require.NoError(t, err)
	require.Equal(t, Failed, state)
}

func TestStartDeclaresFailedWhenAnyQuorumRecordSaysFailed(t *testing.T) {
	a := newFakeArray(4, 2048)
	_, err := Create(a.blockDevice())
	require.NoError(t, err)
	buf := encodeServiceRecord(serviceRecord{timestamp: 0, failedDevice: noFailedDevice, state: byte(Failed)})
	a.write(2, a.s-1, buf[:], 1)

	v := NewVolume()
	state, err := v.Start(a.blockDevice())
	require.NoError(t, err)
	require.Equal(t, Failed, state)
}

func TestStopThenStartRoundTrip(t *testing.T) {
	v, a := startedVolume(t, 3, 2048)

	ok, err := v.Write(0, pattern('A'), 1)
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, Stopped, v.Stop())

	v2 := NewVolume()
	state, err := v2.Start(a.blockDevice())
	require.NoError(t, err)
	require.Equal(t, OK, state)

	out := make([]byte, SectorSize)
	ok, err = v2.Read(0, out, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pattern('A'), out)
}

func TestStopExcludesFailedDeviceFromMetadataWrite(t *testing.T) {
	v, a := startedVolume(t, 4, 2048)
	a.fail(2)

	_, err := v.Write(0, pattern('B'), 1)
	require.NoError(t, err)
	require.Equal(t, Degraded, v.Status())
	require.Equal(t, 2, v.FailedDevice())

	// Let device 2 accept writes again so a metadata write to it would
	// land, then check that Stop left its service record untouched.
	delete(a.failWrite, 2)
	v.Stop()
	meta := (a.s - 1) * SectorSize
	require.Equal(t, byte(0), a.data[2][meta])
	require.Equal(t, byte(1), a.data[0][meta])
}

func TestReadWriteRejectWhenNotStarted(t *testing.T) {
	v := NewVolume()
	_, err := v.Read(0, make([]byte, SectorSize), 1)
	require.ErrorIs(t, err, ErrNotStarted)

	_, err = v.Write(0, make([]byte, SectorSize), 1)
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestReadWriteRejectOutOfRange(t *testing.T) {
	v, _ := startedVolume(t, 5, 2048)
	_, err := v.Read(v.Size(), make([]byte, SectorSize), 1)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = v.Write(-1, make([]byte, SectorSize), 1)
	require.ErrorIs(t, err, ErrOutOfRange)
}
