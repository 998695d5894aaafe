// Package archive manages the APKs kept in the download directory.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/adamancini/ffupdate/internal/types"
	"github.com/adamancini/ffupdate/internal/update"
)

// apkName matches the file names produced by the download URL templates.
var apkName = regexp.MustCompile(`^fennec-(.+)\.multi\.android-([a-z0-9_]+)\.apk$`)

// APK is a downloaded package in the download directory.
type APK struct {
	Name    string       `json:"name" yaml:"name"`
	Version string       `json:"version" yaml:"version"`
	ABI     types.ABI    `json:"abi" yaml:"abi"`
	Channel types.Family `json:"channel" yaml:"channel"`
	Size    int64        `json:"size" yaml:"size"`
	ModTime time.Time    `json:"mod_time" yaml:"mod_time"`

	parsed *update.Version
}

// Manager handles the APKs of one download directory.
type Manager struct {
	dir string
}

// NewManager creates a manager for dir.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Dir returns the download directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// ParseName extracts version, ABI and channel from an APK file name.
func ParseName(name string) (APK, bool) {
	matches := apkName.FindStringSubmatch(name)
	if matches == nil {
		return APK{}, false
	}

	abi, ok := abiForSuffix(matches[2])
	if !ok {
		return APK{}, false
	}
	v, err := update.ParseVersion(matches[1])
	if err != nil {
		return APK{}, false
	}

	channel := types.FamilyRelease
	switch v.Prerelease {
	case "a":
		channel = types.FamilyNightly
	case "b":
		channel = types.FamilyBeta
	}

	return APK{
		Name:    name,
		Version: matches[1],
		ABI:     abi,
		Channel: channel,
		parsed:  v,
	}, true
}

func abiForSuffix(suffix string) (types.ABI, bool) {
	for _, abi := range types.AllABIs() {
		if s, ok := abi.FileSuffix(); ok && s == suffix {
			return abi, true
		}
	}
	return "", false
}

// List returns the APKs in the directory, newest version first. Files that
// are not downloaded APKs are ignored.
func (m *Manager) List() ([]APK, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []APK{}, nil
		}
		return nil, fmt.Errorf("failed to read download directory: %w", err)
	}

	apks := []APK{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		apk, ok := ParseName(entry.Name())
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		apk.Size = info.Size()
		apk.ModTime = info.ModTime()
		apks = append(apks, apk)
	}

	sort.SliceStable(apks, func(i, j int) bool {
		if c := apks[i].parsed.Compare(apks[j].parsed); c != 0 {
			return c > 0
		}
		return apks[i].ModTime.After(apks[j].ModTime)
	})

	return apks, nil
}

// Delete removes an APK by file name.
func (m *Manager) Delete(name string) error {
	if _, ok := ParseName(name); !ok || filepath.Base(name) != name {
		return fmt.Errorf("not a downloaded apk: %s", name)
	}

	path := filepath.Join(m.dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("apk not found: %s", name)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete apk: %w", err)
	}

	return nil
}
