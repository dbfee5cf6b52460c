// SPDX-License-Identifier: GPL-3.0-or-later

package tuning

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"wifitune/internal/adapter"
	"wifitune/logger"
)

// Snapshot is a point-in-time record of every advanced property and
// power-management flag the driver exposed. Immutable once taken.
type Snapshot struct {
	Adapter    string            `json:"adapter"`
	TakenAt    time.Time         `json:"takenAt"`
	Properties map[string]string `json:"properties"`
	PowerFlags map[string]string `json:"powerFlags"`
}

// Backup reads the current adapter state into a Snapshot. Individual
// read failures are tolerated: whatever could not be read is simply
// absent from the snapshot.
func Backup(store adapter.PropertyStore, adapterName string, log *logger.Logger) *Snapshot {
	snap := &Snapshot{
		Adapter:    adapterName,
		TakenAt:    time.Now(),
		Properties: make(map[string]string),
		PowerFlags: make(map[string]string),
	}

	props, err := store.Properties()
	if err != nil {
		log.Warningf("backup: reading advanced properties: %v", err)
	}
	for _, p := range props {
		snap.Properties[p.DisplayName] = p.DisplayValue
	}

	flags, err := store.PowerFlags()
	if err != nil {
		log.Warningf("backup: reading power management flags: %v", err)
	}
	for k, v := range flags {
		snap.PowerFlags[k] = v
	}

	log.Infof("backup: captured %d properties, %d power flags", len(snap.Properties), len(snap.PowerFlags))

	return snap
}

// Save writes the snapshot as indented JSON.
func (s *Snapshot) Save(path string) error {
	bs, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %v", err)
	}
	if err := os.WriteFile(path, bs, 0o644); err != nil {
		return fmt.Errorf("writing snapshot '%s': %v", path, err)
	}
	return nil
}

// LoadSnapshot reads a snapshot previously written by Save.
func LoadSnapshot(path string) (*Snapshot, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot '%s': %v", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(bs, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot '%s': %v", path, err)
	}

	return &snap, nil
}
