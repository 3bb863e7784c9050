package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hostutils/diskinfo/internal/attr"
	"github.com/hostutils/diskinfo/internal/smart"
)

func TestSizeString(t *testing.T) {
	// 1953525168 blocks is a nominal 1 TB disk.
	assert.Equal(t, "1.0 TB", sizeString(1953525168, false))
	assert.Equal(t, "932 GiB", sizeString(1953525168, true))

	assert.Equal(t, "1.1 GB", sizeString(2097152, false))
	assert.Equal(t, "1.0 GiB", sizeString(2097152, true))
}

func TestAttrString(t *testing.T) {
	assert.Equal(t, "WDC WD80EFAX", attrString(attr.Of("WDC WD80EFAX")))
	assert.Equal(t, "4096", attrString(attr.Of(4096)))
	assert.Equal(t, "-", attrString(attr.None[string]()))
	assert.Contains(t, attrString(attr.Fail[string](errors.New("boom"))), "read failed")
}

func TestRenderSmartStandby(t *testing.T) {
	var buf bytes.Buffer

	renderSmart(&buf, "sda", &smart.Snapshot{StandbyMode: true})

	assert.Contains(t, buf.String(), "standby")
	assert.NotContains(t, buf.String(), "overall health")
}

func TestRenderSmartAta(t *testing.T) {
	snap := &smart.Snapshot{
		Healthy:     true,
		Temperature: attr.Of(38.0),
		Ata: []smart.AtaAttribute{
			{ID: 5, Name: "Reallocated_Sector_Ct", Value: 100, Worst: 100, Thresh: 10, Type: "Pre-fail", RawString: "0"},
			{ID: 194, Name: "Temperature_Celsius", Value: 62, Worst: 45, Type: "Old_age", RawString: "38"},
		},
	}

	var buf bytes.Buffer
	renderSmart(&buf, "sda", snap)

	out := buf.String()
	assert.Contains(t, out, "PASSED")
	assert.Contains(t, out, "38.0")
	assert.Contains(t, out, "Reallocated_Sector_Ct")
	assert.Contains(t, out, "Temperature_Celsius")
}

func TestRenderSmartFailedVerdict(t *testing.T) {
	var buf bytes.Buffer

	renderSmart(&buf, "sdb", &smart.Snapshot{Healthy: false})

	assert.Contains(t, buf.String(), "FAILED")
}

func TestRenderSmartNVMe(t *testing.T) {
	snap := &smart.Snapshot{
		Healthy:     true,
		Temperature: attr.Of(35.0),
		NVMe: &smart.NVMeLog{
			AvailableSpare:          100,
			AvailableSpareThreshold: 10,
			PercentageUsed:          3,
			PowerOnHours:            1241,
			UnsafeShutdowns:         9,
		},
	}

	var buf bytes.Buffer
	renderSmart(&buf, "nvme0n1", snap)

	out := buf.String()
	assert.Contains(t, out, "percentage used")
	assert.Contains(t, out, "3%")
	assert.Contains(t, out, "1241")
	assert.Contains(t, out, "0x00")
}
