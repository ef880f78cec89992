package device

import (
	"testing"

	"github.com/stretchr/testify/require"

	"raid5vol/pkg/raid5"
)

func TestCachedDeviceHitsAfterFirstRead(t *testing.T) {
	mem, err := NewMemoryDevice(8)
	require.NoError(t, err)
	cached := NewCachedDevice(mem, 4)

	buf := make([]byte, raid5.SectorSize)
	for i := range buf {
		buf[i] = 9
	}
	require.NoError(t, cached.Write(0, buf))

	out := make([]byte, raid5.SectorSize)
	require.NoError(t, cached.Read(0, out))
	require.NoError(t, cached.Read(0, out))

	hits, misses := cached.Stats()
	require.Equal(t, uint64(2), hits)
	require.Equal(t, uint64(0), misses)
}

func TestCachedDeviceEvictsOldest(t *testing.T) {
	mem, err := NewMemoryDevice(8)
	require.NoError(t, err)
	cached := NewCachedDevice(mem, 2)

	buf := make([]byte, raid5.SectorSize)
	out := make([]byte, raid5.SectorSize)

	require.NoError(t, cached.Read(0, out))
	require.NoError(t, cached.Read(1, out))
	require.NoError(t, cached.Read(2, out)) // evicts sector 0

	require.NoError(t, cached.Read(0, out))
	_, misses := cached.Stats()
	require.Equal(t, uint64(4), misses) // 0,1,2 first-seen, then 0 again after eviction

	_ = buf
}

func TestCachedDeviceWriteIsVisibleImmediately(t *testing.T) {
	mem, err := NewMemoryDevice(4)
	require.NoError(t, err)
	cached := NewCachedDevice(mem, 4)

	buf := make([]byte, raid5.SectorSize)
	for i := range buf {
		buf[i] = 0xAB
	}
	require.NoError(t, cached.Write(2, buf))

	direct := make([]byte, raid5.SectorSize)
	require.NoError(t, mem.Read(2, direct))
	require.Equal(t, buf, direct)
}
