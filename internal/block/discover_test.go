package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mixedHost lays down one disk of every class.
func mixedHost(t *testing.T) (*fixture, *System) {
	t.Helper()
	f := newFixture(t)
	f.addDisk(diskSpec{
		name: "sda", devID: "8:0", size: "3907029168", rotational: "1",
		udev: []string{"E:ID_SERIAL_SHORT=WD-WCC4N5PF96SX"},
	})
	f.addDisk(diskSpec{
		name: "sdb", devID: "8:16", size: "1953525168", rotational: "0",
		udev: []string{"E:ID_SERIAL_SHORT=S3D2NY0J819218R"},
	})
	f.addDisk(diskSpec{name: "nvme0n1", devID: "259:0", size: "1000215216"})
	f.addDisk(diskSpec{name: "loop0", devID: "7:0", size: "8192"})
	return f, f.system(nil, nil)
}

func TestDiscoverDefaultFilter(t *testing.T) {
	_, sys := mixedHost(t)

	inv, err := sys.Discover(DiscoverOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, inv.Count())
	assert.True(t, inv.ContainsName("sda"))
	assert.True(t, inv.ContainsName("sdb"))
	assert.True(t, inv.ContainsName("nvme0n1"))
	assert.False(t, inv.ContainsName("loop0"))
}

func TestDiscoverInclude(t *testing.T) {
	_, sys := mixedHost(t)

	inv, err := sys.Discover(DiscoverOptions{Include: SSD})
	require.NoError(t, err)

	require.Equal(t, 1, inv.Count())
	assert.Equal(t, "sdb", inv.Disks()[0].Name())
}

func TestDiscoverExclusionWins(t *testing.T) {
	_, sys := mixedHost(t)

	inv, err := sys.Discover(DiscoverOptions{Include: SSD | NVMe, Exclude: NVMe})
	require.NoError(t, err)

	require.Equal(t, 1, inv.Count())
	assert.Equal(t, "sdb", inv.Disks()[0].Name())
}

func TestDiscoverIncludeLoop(t *testing.T) {
	_, sys := mixedHost(t)

	inv, err := sys.Discover(DiscoverOptions{Include: Loop})
	require.NoError(t, err)

	require.Equal(t, 1, inv.Count())
	assert.Equal(t, Loop, inv.Disks()[0].Type())
}

func TestDiscoverRoundTrip(t *testing.T) {
	_, sys := mixedHost(t)

	inv, err := sys.Discover(DiscoverOptions{Include: HDD | SSD | NVMe | Loop})
	require.NoError(t, err)
	require.Equal(t, 4, inv.Count())

	// Every discovered disk must resolve back to itself by name.
	for _, d := range inv.Disks() {
		id, err := sys.Resolve(Selector{Name: d.Name()})
		require.NoError(t, err)
		assert.Equal(t, d.DevID(), id.DevID)
	}
}

func TestDiscoverSkipsBrokenDevice(t *testing.T) {
	f := newFixture(t)
	f.addDisk(diskSpec{name: "sda", devID: "8:0", size: "100", rotational: "1"})
	// No size attribute: the device cannot build and must not abort the
	// whole pass.
	f.addDisk(diskSpec{name: "sdb", devID: "8:16", rotational: "0"})
	sys := f.system(nil, nil)

	inv, err := sys.Discover(DiscoverOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, inv.Count())
	assert.True(t, inv.ContainsName("sda"))
}

func TestDiscoverOrdering(t *testing.T) {
	f := newFixture(t)
	f.addDisk(diskSpec{name: "sdc", devID: "8:32", size: "1", rotational: "0"})
	f.addDisk(diskSpec{name: "sda", devID: "8:0", size: "1", rotational: "0"})
	f.addDisk(diskSpec{name: "sdb", devID: "8:16", size: "1", rotational: "0"})
	sys := f.system(nil, nil)

	names := func(inv *Inventory) []string {
		var out []string
		for _, d := range inv.Disks() {
			out = append(out, d.Name())
		}
		return out
	}

	t.Run("sorted", func(t *testing.T) {
		inv, err := sys.Discover(DiscoverOptions{SortByName: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"sda", "sdb", "sdc"}, names(inv))
	})

	t.Run("sorted reverse", func(t *testing.T) {
		inv, err := sys.Discover(DiscoverOptions{SortByName: true, Reverse: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"sdc", "sdb", "sda"}, names(inv))
	})
}

func TestInventoryCountByType(t *testing.T) {
	_, sys := mixedHost(t)

	inv, err := sys.Discover(DiscoverOptions{Include: HDD | SSD | NVMe | Loop})
	require.NoError(t, err)

	assert.Equal(t, 4, inv.Count())
	assert.Equal(t, 1, inv.CountByType(HDD, 0))
	assert.Equal(t, 2, inv.CountByType(HDD|SSD, 0))
	assert.Equal(t, 3, inv.CountByType(0, 0))
	assert.Equal(t, 2, inv.CountByType(0, HDD))
	assert.Equal(t, 0, inv.CountByType(NVMe, NVMe))
}

func TestInventoryContains(t *testing.T) {
	f, sys := mixedHost(t)

	inv, err := sys.Discover(DiscoverOptions{})
	require.NoError(t, err)

	member, err := sys.Disk(Selector{Name: "sdb"})
	require.NoError(t, err)
	assert.True(t, inv.Contains(member))

	// Same device reached through a different identifier still matches by
	// serial number.
	bySerial, err := sys.Disk(Selector{Serial: "S3D2NY0J819218R"})
	require.NoError(t, err)
	assert.True(t, inv.Contains(bySerial))

	f.addDisk(diskSpec{name: "sdz", devID: "65:144", size: "1", rotational: "1"})
	stranger, err := sys.Disk(Selector{Name: "sdz"})
	require.NoError(t, err)
	assert.False(t, inv.Contains(stranger))
	assert.False(t, inv.Contains(nil))
}
