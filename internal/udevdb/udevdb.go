// Package udevdb reads the udev device database and persistent-name links.
//
// udev maintains one data file per block device under /run/udev/data, named
// b<major>:<minor>. Each file carries property lines ("E:KEY=value") and the
// device's persistent-name link tokens ("S:disk/by-id/..."). The same
// information backs the /dev/disk/by-* symlink directories, which this
// package also resolves.
package udevdb

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Standard locations of the udev runtime database and the device tree.
const (
	DefaultRunDir = "/run"
	DefaultDevDir = "/dev"
)

// DB reads udev data files and persistent-name symlinks under fixed roots.
type DB struct {
	runDir string
	devDir string
}

// New returns a DB over the standard /run and /dev locations.
func New() *DB {
	return NewAt(DefaultRunDir, DefaultDevDir)
}

// NewAt returns a DB rooted at the given run and dev directories. The run
// directory is expected to contain "udev/data", the dev directory "disk".
func NewAt(runDir, devDir string) *DB {
	return &DB{runDir: runDir, devDir: devDir}
}

// Record is the parsed form of one udev data file.
type Record struct {
	// Props holds the E: property lines keyed by property name.
	Props map[string]string

	// Links holds the S: symlink tokens in file order, relative to /dev
	// (e.g. "disk/by-id/ata-Samsung_SSD_850_S3D2NY0J").
	Links []string
}

// Record parses the udev data file for a block device-id ("8:0"). A missing
// file means udev has no record for the device, reported through ok=false
// with a nil error.
func (db *DB) Record(devID string) (rec *Record, ok bool, err error) {
	path := filepath.Join(db.runDir, "udev", "data", "b"+devID)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("udevdb: open record b%s: %w", devID, err)
	}
	defer f.Close()

	rec = &Record{Props: make(map[string]string)}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "E:"):
			kv := strings.SplitN(line[2:], "=", 2)
			if len(kv) == 2 {
				rec.Props[kv[0]] = kv[1]
			}
		case strings.HasPrefix(line, "S:"):
			if link := strings.TrimSpace(line[2:]); link != "" {
				rec.Links = append(rec.Links, link)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("udevdb: read record b%s: %w", devID, err)
	}

	return rec, true, nil
}

// Property returns a property value by key.
func (r *Record) Property(key string) (string, bool) {
	v, ok := r.Props[key]
	return v, ok
}

// LinksIn returns the record's persistent-name paths under one /dev/disk
// directory ("by-id", "by-path", "by-partuuid", "by-partlabel", "by-uuid",
// "by-label") as absolute /dev paths, preserving file order and dropping
// duplicates.
func (r *Record) LinksIn(dir string) []string {
	prefix := "disk/" + dir + "/"

	var paths []string
	seen := make(map[string]struct{})
	for _, link := range r.Links {
		if !strings.HasPrefix(link, prefix) {
			continue
		}
		p := "/dev/" + link
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	return paths
}

// ResolveLink follows a persistent-name symlink ("by-id", name) to the real
// device node path. A missing link is reported through ok=false with a nil
// error.
func (db *DB) ResolveLink(dir, name string) (target string, ok bool, err error) {
	link := filepath.Join(db.devDir, "disk", dir, name)

	if _, lerr := os.Lstat(link); lerr != nil {
		if os.IsNotExist(lerr) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("udevdb: stat link %s/%s: %w", dir, name, lerr)
	}

	target, err = filepath.EvalSymlinks(link)
	if err != nil {
		return "", false, fmt.Errorf("udevdb: resolve link %s/%s: %w", dir, name, err)
	}

	return target, true, nil
}

// Unescape reverses udev's byte escaping, which encodes non-printable and
// non-ASCII bytes as "\xNN" hex sequences in property values. The returned
// bytes are in whatever character encoding the filesystem labels were
// written with; decoding them into text is the caller's concern.
func Unescape(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			hi, okHi := hexVal(s[i+2])
			lo, okLo := hexVal(s[i+3])
			if okHi && okLo {
				out = append(out, hi<<4|lo)
				i += 4
				continue
			}
		}
		out = append(out, s[i])
		i++
	}
	return out
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
