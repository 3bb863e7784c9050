package devname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromPath(t *testing.T) {
	type args struct {
		s string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "with empty input",
			args: args{
				s: "",
			},
			want: "",
		},
		{
			name: "without device name",
			args: args{
				s: "this is not a device name",
			},
			want: "",
		},
		{
			name: "with bare name",
			args: args{
				s: "sda",
			},
			want: "sda",
		},
		{
			name: "with device node path",
			args: args{
				s: "/dev/sda",
			},
			want: "sda",
		},
		{
			name: "with nvme namespace path",
			args: args{
				s: "/dev/nvme0n1",
			},
			want: "nvme0n1",
		},
		{
			name: "with surrounding whitespace",
			args: args{
				s: "  /dev/vdb \n",
			},
			want: "vdb",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPath(tt.args.s)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsNVMe(t *testing.T) {
	assert.True(t, IsNVMe("nvme0n1"))
	assert.True(t, IsNVMe("nvme12n3"))
	assert.False(t, IsNVMe("sda"))
	assert.False(t, IsNVMe("loop0"))
}

func TestIsPartitionOf(t *testing.T) {
	type args struct {
		entry string
		disk  string
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{
			name: "sd partition",
			args: args{entry: "sda1", disk: "sda"},
			want: true,
		},
		{
			name: "sd multi digit partition",
			args: args{entry: "sda12", disk: "sda"},
			want: true,
		},
		{
			name: "nvme partition",
			args: args{entry: "nvme0n1p2", disk: "nvme0n1"},
			want: true,
		},
		{
			name: "mmc partition",
			args: args{entry: "mmcblk0p1", disk: "mmcblk0"},
			want: true,
		},
		{
			name: "disk itself",
			args: args{entry: "sda", disk: "sda"},
			want: false,
		},
		{
			name: "sibling disk",
			args: args{entry: "sdb1", disk: "sda"},
			want: false,
		},
		{
			name: "nvme sibling namespace",
			args: args{entry: "nvme0n2", disk: "nvme0n1"},
			want: false,
		},
		{
			name: "nvme higher namespace is not a partition",
			args: args{entry: "nvme0n12", disk: "nvme0n1"},
			want: false,
		},
		{
			name: "empty disk",
			args: args{entry: "sda1", disk: ""},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsPartitionOf(tt.args.entry, tt.args.disk)
			assert.Equal(t, tt.want, got)
		})
	}
}
