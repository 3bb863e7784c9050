package sysfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeAttr creates an attribute file with parent directories.
func writeAttr(t *testing.T, root string, elems ...string) {
	t.Helper()
	path := filepath.Join(elems[:len(elems)-1]...)
	path = filepath.Join(root, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(elems[len(elems)-1]), 0o644))
}

func TestBlockDevices(t *testing.T) {
	root := t.TempDir()
	writeAttr(t, root, "block", "sda", "dev", "8:0\n")
	writeAttr(t, root, "block", "nvme0n1", "dev", "259:0\n")

	fs := NewAt(root)
	names, err := fs.BlockDevices()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sda", "nvme0n1"}, names)
}

func TestBlockDevicesMissingRoot(t *testing.T) {
	fs := NewAt(filepath.Join(t.TempDir(), "nope"))
	_, err := fs.BlockDevices()
	assert.Error(t, err)
}

func TestAttr(t *testing.T) {
	root := t.TempDir()
	writeAttr(t, root, "block", "sda", "size", "1953525168\n")
	writeAttr(t, root, "block", "sda", "queue/rotational", "1\n")
	writeAttr(t, root, "block", "sda", "sda1/partition", "1\n")

	fs := NewAt(root)

	t.Run("plain attribute", func(t *testing.T) {
		v, ok, err := fs.Attr("sda", "size")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1953525168", v)
	})

	t.Run("nested attribute", func(t *testing.T) {
		v, ok, err := fs.Attr("sda", "queue/rotational")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1", v)
	})

	t.Run("partition sub-entry", func(t *testing.T) {
		v, ok, err := fs.Attr(filepath.Join("sda", "sda1"), "partition")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1", v)
	})

	t.Run("absent attribute is not an error", func(t *testing.T) {
		_, ok, err := fs.Attr("sda", "queue/does_not_exist")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestExists(t *testing.T) {
	root := t.TempDir()
	writeAttr(t, root, "block", "vda", "dev", "254:0")

	fs := NewAt(root)
	assert.True(t, fs.Exists("vda"))
	assert.False(t, fs.Exists("vdb"))
}

func TestHwmonAttr(t *testing.T) {
	t.Run("direct hwmon directory", func(t *testing.T) {
		root := t.TempDir()
		writeAttr(t, root, "block", "sda", "device/hwmon/hwmon1/temp1_input", "41000\n")

		fs := NewAt(root)
		v, ok, err := fs.HwmonAttr("sda", "temp1_input")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "41000", v)
	})

	t.Run("nested hwmon directory", func(t *testing.T) {
		root := t.TempDir()
		writeAttr(t, root, "block", "nvme0n1", "device/device/hwmon/hwmon3/temp1_input", "35000\n")

		fs := NewAt(root)
		v, ok, err := fs.HwmonAttr("nvme0n1", "temp1_input")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "35000", v)
	})

	t.Run("no sensor", func(t *testing.T) {
		root := t.TempDir()
		writeAttr(t, root, "block", "sdb", "dev", "8:16")

		fs := NewAt(root)
		_, ok, err := fs.HwmonAttr("sdb", "temp1_input")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
