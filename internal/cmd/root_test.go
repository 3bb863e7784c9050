package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostutils/diskinfo/internal/block"
	"github.com/hostutils/diskinfo/internal/config"
	"github.com/hostutils/diskinfo/internal/smart"
)

func init() {
	logrus.SetOutput(io.Discard)
}

// testSystem builds a query layer over a synthetic single-disk host: one
// SATA SSD named sda with a udev record carrying model and serial.
func testSystem(t *testing.T) *block.System {
	return testSystemWith(t, nil)
}

func testSystemWith(t *testing.T, sb smart.Backend) *block.System {
	t.Helper()

	root := t.TempDir()
	sysRoot := filepath.Join(root, "sys")
	runDir := filepath.Join(root, "run")
	devDir := filepath.Join(root, "dev")

	queue := filepath.Join(sysRoot, "block", "sda", "queue")
	require.NoError(t, os.MkdirAll(queue, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sysRoot, "block", "sda", "dev"), []byte("8:0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sysRoot, "block", "sda", "size"), []byte("41943040\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(queue, "rotational"), []byte("0\n"), 0o644))

	udevData := filepath.Join(runDir, "udev", "data")
	require.NoError(t, os.MkdirAll(udevData, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(udevData, "b8:0"),
		[]byte("E:ID_MODEL=TestDisk\nE:ID_SERIAL_SHORT=S123TEST\n"), 0o644))

	require.NoError(t, os.MkdirAll(devDir, 0o755))

	sys, err := block.New(block.Options{
		SysfsRoot: sysRoot,
		RunDir:    runDir,
		DevDir:    devDir,
		Smart:     sb,
	})
	require.NoError(t, err)

	return sys
}

func TestLogLevel(t *testing.T) {
	tests := map[string]struct {
		cfg       config.Config
		verbosity int
		want      logrus.Level
	}{
		"default":                {want: logrus.InfoLevel},
		"verbose wins":           {cfg: config.Config{LogLevel: "error"}, verbosity: 1, want: logrus.DebugLevel},
		"doubled verbose":        {verbosity: 2, want: logrus.TraceLevel},
		"configured level":       {cfg: config.Config{LogLevel: "trace"}, want: logrus.TraceLevel},
		"unparseable falls back": {cfg: config.Config{LogLevel: "shout"}, want: logrus.InfoLevel},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, logLevel(&tt.cfg, tt.verbosity))
		})
	}
}

func TestConfigFromContextMissing(t *testing.T) {
	cmd := rootCommand()

	_, err := configFromContext(cmd)

	assert.Error(t, err)
}
