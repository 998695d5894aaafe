package archive

import (
	"fmt"

	"github.com/adamancini/ffupdate/internal/types"
)

// DefaultKeepCount is the number of APKs kept per channel and ABI when
// pruning without an explicit count.
const DefaultKeepCount = 1

// PruneResult contains information about what was pruned.
type PruneResult struct {
	Deleted []APK `json:"deleted" yaml:"deleted"`
	Kept    int   `json:"kept" yaml:"kept"`
}

type group struct {
	channel types.Family
	abi     types.ABI
}

// Prune removes old APKs, keeping the newest keep versions of every
// channel and ABI. The APKs named in protect are always kept. With dryRun
// nothing is deleted.
func (m *Manager) Prune(keep int, dryRun bool, protect ...string) (*PruneResult, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep count must be non-negative")
	}

	apks, err := m.List()
	if err != nil {
		return nil, err
	}

	protected := make(map[string]bool, len(protect))
	for _, name := range protect {
		protected[name] = true
	}

	result := &PruneResult{Deleted: []APK{}}
	seen := make(map[group]int)

	// APKs are already sorted newest first
	for _, apk := range apks {
		g := group{channel: apk.Channel, abi: apk.ABI}
		if seen[g] < keep || protected[apk.Name] {
			seen[g]++
			result.Kept++
			continue
		}

		if !dryRun {
			if err := m.Delete(apk.Name); err != nil {
				return nil, fmt.Errorf("failed to delete %s: %w", apk.Name, err)
			}
		}
		result.Deleted = append(result.Deleted, apk)
	}

	return result, nil
}
