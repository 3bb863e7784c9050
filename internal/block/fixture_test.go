package block

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hostutils/diskinfo/internal/lsblk"
	"github.com/hostutils/diskinfo/internal/smart"
)

func init() {
	logrus.SetOutput(io.Discard)
}

// fixture builds fake sysfs, udev and dev trees for one test so a System
// can be pointed at them instead of the live machine.
type fixture struct {
	t       *testing.T
	sysRoot string
	runDir  string
	devDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		t:       t,
		sysRoot: filepath.Join(root, "sys"),
		runDir:  filepath.Join(root, "run"),
		devDir:  filepath.Join(root, "dev"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(f.sysRoot, "block"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.runDir, "udev", "data"), 0o755))
	for _, dir := range []string{"by-id", "by-path", "by-uuid", "by-label", "by-partuuid", "by-partlabel"} {
		require.NoError(t, os.MkdirAll(filepath.Join(f.devDir, "disk", dir), 0o755))
	}
	return f
}

// system builds a System over the fixture trees. The backends may be nil for
// tests that never enumerate partitions or read SMART data.
func (f *fixture) system(lc lsblk.Client, sb smart.Backend) *System {
	f.t.Helper()
	sys, err := New(Options{
		SysfsRoot: f.sysRoot,
		RunDir:    f.runDir,
		DevDir:    f.devDir,
		Lsblk:     lc,
		Smart:     sb,
	})
	require.NoError(f.t, err)
	return sys
}

// writeSysAttr writes one attribute file under the device's block directory.
// The device may name a partition sub-entry as "sda/sda1" and the attribute
// may contain path separators ("queue/rotational").
func (f *fixture) writeSysAttr(device, name, content string) {
	f.t.Helper()
	path := filepath.Join(f.sysRoot, "block", device, filepath.FromSlash(name))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o644))
}

// writeUdev writes a udev data file for a device ID from raw property and
// link lines, the way udevd lays them down under /run/udev/data.
func (f *fixture) writeUdev(devID string, lines ...string) {
	f.t.Helper()
	path := filepath.Join(f.runDir, "udev", "data", "b"+devID)
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o644))
}

// link creates a persistent-name symlink under /dev/disk pointing back at
// the named device node.
func (f *fixture) link(dir, entry, device string) {
	f.t.Helper()
	f.writeDevNode(device)
	linkPath := filepath.Join(f.devDir, "disk", dir, entry)
	require.NoError(f.t, os.Symlink(filepath.Join("..", "..", device), linkPath))
}

// writeDevNode creates a plain file standing in for the device node.
func (f *fixture) writeDevNode(device string) {
	f.t.Helper()
	path := filepath.Join(f.devDir, device)
	if _, err := os.Stat(path); err == nil {
		return
	}
	require.NoError(f.t, os.WriteFile(path, nil, 0o600))
}

// diskSpec describes one fixture device.
type diskSpec struct {
	name       string
	devID      string
	size       string // raw contents of the size attribute, "" to omit
	rotational string // raw contents of queue/rotational, "" to omit
	udev       []string
	hwmon      string // raw contents of temp1_input, "" for no sensor
}

// addDisk lays down the sysfs entries, the device node and the udev record
// for one device.
func (f *fixture) addDisk(s diskSpec) {
	f.t.Helper()
	f.writeSysAttr(s.name, "dev", s.devID+"\n")
	if s.size != "" {
		f.writeSysAttr(s.name, "size", s.size+"\n")
	}
	if s.rotational != "" {
		f.writeSysAttr(s.name, "queue/rotational", s.rotational+"\n")
	}
	if s.hwmon != "" {
		dir := "device/hwmon/hwmon0"
		if strings.Contains(s.name, "nvme") {
			dir = "device/device/hwmon/hwmon0"
		}
		f.writeSysAttr(s.name, dir+"/temp1_input", s.hwmon+"\n")
	}
	f.writeDevNode(s.name)
	if len(s.udev) > 0 {
		f.writeUdev(s.devID, s.udev...)
	}
}
