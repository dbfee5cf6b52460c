// SPDX-License-Identifier: GPL-3.0-or-later

package tuning

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifitune/internal/adapter"
)

func newMockStore(props ...adapter.Property) *mockStore {
	s := &mockStore{failWrites: make(map[string]error)}
	s.props = append(s.props, props...)
	return s
}

type mockStore struct {
	props      []adapter.Property
	failWrites map[string]error

	writes       []Change
	enabledCalls []bool
}

func (s *mockStore) Properties() ([]adapter.Property, error) {
	out := make([]adapter.Property, len(s.props))
	copy(out, s.props)
	return out, nil
}

func (s *mockStore) Property(displayName string) (*adapter.Property, error) {
	for _, p := range s.props {
		if p.DisplayName == displayName {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("property '%s' not found", displayName)
}

func (s *mockStore) SetProperty(displayName, displayValue string) error {
	if err := s.failWrites[displayName]; err != nil {
		return err
	}
	for i, p := range s.props {
		if p.DisplayName == displayName {
			s.writes = append(s.writes, Change{Property: displayName, Previous: p.DisplayValue, New: displayValue})
			s.props[i].DisplayValue = displayValue
			return nil
		}
	}
	return fmt.Errorf("property '%s' not found", displayName)
}

func (s *mockStore) PowerFlags() (map[string]string, error) {
	return map[string]string{"AllowComputerToTurnOffDevice": "Enabled"}, nil
}

func (s *mockStore) SetEnabled(enabled bool) error {
	s.enabledCalls = append(s.enabledCalls, enabled)
	return nil
}

func (s *mockStore) value(displayName string) string {
	for _, p := range s.props {
		if p.DisplayName == displayName {
			return p.DisplayValue
		}
	}
	return ""
}

func newTestManager(store *mockStore) *Manager {
	m := NewManager(store, nil)
	m.elevated = func() bool { return true }
	m.sleep = func(time.Duration) {}
	return m
}

func bandProps(n int) []adapter.Property {
	var props []adapter.Property
	for i := 1; i <= n; i++ {
		props = append(props, adapter.Property{
			DisplayName:  fmt.Sprintf("Prop %d", i),
			DisplayValue: "Old",
			ValidValues:  []string{"Old", "New"},
		})
	}
	return props
}

func bandProfile(n int) Profile {
	var profile Profile
	for i := 1; i <= n; i++ {
		profile = append(profile, Setting{Property: fmt.Sprintf("Prop %d", i), Value: "New"})
	}
	return profile
}

func TestManager_ApplyOne(t *testing.T) {
	t.Run("writes and records the change", func(t *testing.T) {
		store := newMockStore(adapter.Property{
			DisplayName:  "Preferred Band",
			DisplayValue: "No Preference",
			ValidValues:  []string{"No Preference", "Prefer 5GHz band"},
		})
		m := newTestManager(store)

		var changes ChangeLog
		err := m.ApplyOne("Preferred Band", "5GHz", &changes, nil)

		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, Change{Property: "Preferred Band", Previous: "No Preference", New: "Prefer 5GHz band"}, changes[0])
		assert.Equal(t, "Prefer 5GHz band", store.value("Preferred Band"))
	})

	t.Run("idempotent when value already in effect", func(t *testing.T) {
		store := newMockStore(adapter.Property{
			DisplayName:  "Power Saving Mode",
			DisplayValue: "Off",
			ValidValues:  []string{"Off", "Maximum Power Saving"},
		})
		m := newTestManager(store)

		var changes ChangeLog
		err := m.ApplyOne("Power Saving Mode", "off", &changes, nil)

		require.NoError(t, err)
		assert.Empty(t, changes)
		assert.Empty(t, store.writes)
	})

	t.Run("missing property is skipped", func(t *testing.T) {
		store := newMockStore()
		m := newTestManager(store)

		var changes ChangeLog
		err := m.ApplyOne("Roaming Aggressiveness", "Lowest", &changes, nil)

		require.NoError(t, err)
		assert.Empty(t, changes)
	})

	t.Run("no matching value is skipped", func(t *testing.T) {
		store := newMockStore(adapter.Property{
			DisplayName:  "Transmit Power",
			DisplayValue: "5. Highest",
			ValidValues:  []string{"1. Lowest", "5. Highest"},
		})
		m := newTestManager(store)

		var changes ChangeLog
		err := m.ApplyOne("Transmit Power", "turbo", &changes, nil)

		require.NoError(t, err)
		assert.Empty(t, changes)
		assert.Empty(t, store.writes)
	})

	t.Run("prefers caller-supplied original as previous value", func(t *testing.T) {
		store := newMockStore(adapter.Property{
			DisplayName:  "Transmit Power",
			DisplayValue: "3. Medium",
			ValidValues:  []string{"1. Lowest", "3. Medium", "5. Highest"},
		})
		m := newTestManager(store)

		var changes ChangeLog
		err := m.ApplyOne("Transmit Power", "Highest", &changes, map[string]string{"Transmit Power": "1. Lowest"})

		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, "1. Lowest", changes[0].Previous)
	})

	t.Run("write failure propagates", func(t *testing.T) {
		store := newMockStore(adapter.Property{
			DisplayName:  "Preferred Band",
			DisplayValue: "No Preference",
			ValidValues:  []string{"No Preference", "Prefer 5GHz band"},
		})
		store.failWrites["Preferred Band"] = errors.New("driver rejected the write")
		m := newTestManager(store)

		var changes ChangeLog
		err := m.ApplyOne("Preferred Band", "5GHz", &changes, nil)

		require.Error(t, err)
		assert.Empty(t, changes)
	})
}

func TestManager_ApplyProfile(t *testing.T) {
	t.Run("requires elevation before any write", func(t *testing.T) {
		store := newMockStore(bandProps(2)...)
		m := newTestManager(store)
		m.elevated = func() bool { return false }

		_, err := m.ApplyProfile(bandProfile(2), false, nil)

		assert.ErrorIs(t, err, ErrNotElevated)
		assert.Empty(t, store.writes)
		assert.Empty(t, store.enabledCalls)
	})

	t.Run("successful batch restarts the adapter", func(t *testing.T) {
		store := newMockStore(bandProps(3)...)
		m := newTestManager(store)

		changes, err := m.ApplyProfile(bandProfile(3), false, nil)

		require.NoError(t, err)
		assert.Len(t, changes, 3)
		assert.Equal(t, []bool{false, true}, store.enabledCalls)
	})

	t.Run("fully satisfied batch skips the restart", func(t *testing.T) {
		store := newMockStore(bandProps(3)...)
		for i := range store.props {
			store.props[i].DisplayValue = "New"
		}
		m := newTestManager(store)

		changes, err := m.ApplyProfile(bandProfile(3), false, nil)

		require.NoError(t, err)
		assert.Empty(t, changes)
		assert.Empty(t, store.enabledCalls)
	})

	t.Run("wireless mode applied only when forced", func(t *testing.T) {
		store := newMockStore(adapter.Property{
			DisplayName:  "Wireless Mode",
			DisplayValue: "802.11ac",
			ValidValues:  []string{"802.11ac", "802.11ax"},
		})
		m := newTestManager(store)
		profile := Profile{{Property: "Wireless Mode", Value: "ax", WirelessMode: true}}

		changes, err := m.ApplyProfile(profile, false, nil)
		require.NoError(t, err)
		assert.Empty(t, changes)
		assert.Equal(t, "802.11ac", store.value("Wireless Mode"))

		changes, err = m.ApplyProfile(profile, true, nil)
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, "802.11ax", store.value("Wireless Mode"))
	})

	t.Run("rollback restores prior values in reverse order", func(t *testing.T) {
		for failAt := 1; failAt <= 4; failAt++ {
			t.Run(fmt.Sprintf("write %d fails", failAt), func(t *testing.T) {
				store := newMockStore(bandProps(4)...)
				store.failWrites[fmt.Sprintf("Prop %d", failAt)] = errors.New("driver rejected the write")
				m := newTestManager(store)

				_, err := m.ApplyProfile(bandProfile(4), false, nil)

				require.Error(t, err)
				for i := 1; i <= 4; i++ {
					assert.Equal(t, "Old", store.value(fmt.Sprintf("Prop %d", i)), "Prop %d", i)
				}
				assert.Empty(t, store.enabledCalls, "a rolled-back batch must not restart the adapter")
			})
		}
	})
}

func TestManager_Restore(t *testing.T) {
	t.Run("requires elevation", func(t *testing.T) {
		store := newMockStore(bandProps(1)...)
		m := newTestManager(store)
		m.elevated = func() bool { return false }

		err := m.Restore(map[string]string{"Prop 1": "New"})

		assert.ErrorIs(t, err, ErrNotElevated)
		assert.Empty(t, store.writes)
	})

	t.Run("applies snapshot values and restarts once", func(t *testing.T) {
		store := newMockStore(bandProps(3)...)
		m := newTestManager(store)

		err := m.Restore(map[string]string{"Prop 1": "New", "Prop 2": "New", "Prop 3": "New"})

		require.NoError(t, err)
		for i := 1; i <= 3; i++ {
			assert.Equal(t, "New", store.value(fmt.Sprintf("Prop %d", i)))
		}
		assert.Equal(t, []bool{false, true}, store.enabledCalls)
	})

	t.Run("unknown snapshot properties are skipped", func(t *testing.T) {
		store := newMockStore(bandProps(1)...)
		m := newTestManager(store)

		err := m.Restore(map[string]string{"Prop 1": "New", "Gone Property": "Whatever"})

		require.NoError(t, err)
		assert.Equal(t, "New", store.value("Prop 1"))
	})

	t.Run("write failure propagates without rollback", func(t *testing.T) {
		store := newMockStore(bandProps(3)...)
		store.failWrites["Prop 2"] = errors.New("driver rejected the write")
		m := newTestManager(store)

		err := m.Restore(map[string]string{"Prop 1": "New", "Prop 2": "New", "Prop 3": "New"})

		require.Error(t, err)
		// documented asymmetry with ApplyProfile: the first property's
		// new value stays applied
		assert.Equal(t, "New", store.value("Prop 1"))
		assert.Equal(t, "Old", store.value("Prop 2"))
		assert.Equal(t, "Old", store.value("Prop 3"))
		assert.Empty(t, store.enabledCalls)
	})
}

func TestBackup(t *testing.T) {
	store := newMockStore(bandProps(2)...)

	snap := Backup(store, "wlan0", nil)

	assert.Equal(t, "wlan0", snap.Adapter)
	assert.Equal(t, map[string]string{"Prop 1": "Old", "Prop 2": "Old"}, snap.Properties)
	assert.Equal(t, map[string]string{"AllowComputerToTurnOffDevice": "Enabled"}, snap.PowerFlags)
	assert.WithinDuration(t, time.Now(), snap.TakenAt, time.Minute)
}

func TestSnapshot_SaveLoad(t *testing.T) {
	store := newMockStore(bandProps(2)...)
	snap := Backup(store, "wlan0", nil)

	path := t.TempDir() + "/snapshot.json"
	require.NoError(t, snap.Save(path))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)

	assert.Equal(t, snap.Adapter, loaded.Adapter)
	assert.Equal(t, snap.Properties, loaded.Properties)
	assert.Equal(t, snap.PowerFlags, loaded.PowerFlags)
}
