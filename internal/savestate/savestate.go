// Package savestate frames internal/snapshot's in-memory State into
// numbered JSON slot files on disk, one file per (ROM, slot) pair.
package savestate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nescore/internal/neserr"
	"nescore/internal/scheduler"
	"nescore/internal/snapshot"
)

// file is the on-disk envelope: metadata the Manager needs to validate a
// slot before handing its State to internal/snapshot, plus the State
// itself.
type file struct {
	FormatVersion int             `json:"format_version"`
	Timestamp     time.Time       `json:"timestamp"`
	ROMPath       string          `json:"rom_path"`
	ROMChecksum   string          `json:"rom_checksum"`
	Description   string          `json:"description"`
	State         snapshot.State  `json:"state"`
}

const currentFileVersion = 1

// SlotInfo describes one save slot without loading its full state.
type SlotInfo struct {
	Slot        int
	Used        bool
	Timestamp   time.Time
	Description string
	FilePath    string
}

// Manager owns a directory of numbered save-state files, one file per
// (ROM, slot) pair.
type Manager struct {
	directory string
	maxSlots  int
}

// NewManager builds a Manager rooted at directory, creating it if
// necessary, with the given number of slots per ROM.
func NewManager(directory string, maxSlots int) (*Manager, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, neserr.Wrap(neserr.Io, "creating save state directory", err)
	}
	return &Manager{directory: directory, maxSlots: maxSlots}, nil
}

// Save captures s's current state and writes it to slot for romPath.
func (m *Manager) Save(s *scheduler.Scheduler, slot int, romPath, description string) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}
	checksum, err := romChecksum(romPath)
	if err != nil {
		return err
	}

	f := file{
		FormatVersion: currentFileVersion,
		Timestamp:     time.Now(),
		ROMPath:       romPath,
		ROMChecksum:   checksum,
		Description:   description,
		State:         snapshot.Capture(s),
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return neserr.Wrap(neserr.InvalidSaveState, "encoding save state file", err)
	}
	if err := os.WriteFile(m.slotPath(slot, romPath), data, 0o644); err != nil {
		return neserr.Wrap(neserr.Io, "writing save state file", err)
	}
	return nil
}

// Load restores s from the state file in slot for romPath. It rejects a
// slot saved against a different ROM file (by content checksum, not just
// path) with InvalidSaveState rather than silently applying foreign
// cartridge state.
func (m *Manager) Load(s *scheduler.Scheduler, slot int, romPath string) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}
	data, err := os.ReadFile(m.slotPath(slot, romPath))
	if err != nil {
		return neserr.Wrap(neserr.Io, "reading save state file", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return neserr.Wrap(neserr.InvalidSaveState, "decoding save state file", err)
	}
	if f.FormatVersion != currentFileVersion {
		return neserr.New(neserr.InvalidSaveState, "save state file format version mismatch")
	}

	checksum, err := romChecksum(romPath)
	if err != nil {
		return err
	}
	if checksum != f.ROMChecksum {
		return neserr.New(neserr.InvalidSaveState, "save state does not match the currently loaded rom")
	}

	return snapshot.Restore(s, f.State)
}

// Delete removes the state file in slot for romPath, if any.
func (m *Manager) Delete(slot int, romPath string) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}
	if err := os.Remove(m.slotPath(slot, romPath)); err != nil && !os.IsNotExist(err) {
		return neserr.Wrap(neserr.Io, "deleting save state file", err)
	}
	return nil
}

// Slots reports the status of every slot for romPath.
func (m *Manager) Slots(romPath string) []SlotInfo {
	slots := make([]SlotInfo, m.maxSlots)
	for i := range slots {
		slots[i] = SlotInfo{Slot: i, FilePath: m.slotPath(i, romPath)}
		stat, err := os.Stat(slots[i].FilePath)
		if err != nil {
			continue
		}
		slots[i].Used = true
		slots[i].Timestamp = stat.ModTime()
		if data, err := os.ReadFile(slots[i].FilePath); err == nil {
			var f file
			if json.Unmarshal(data, &f) == nil {
				slots[i].Description = f.Description
				slots[i].Timestamp = f.Timestamp
			}
		}
	}
	return slots
}

func (m *Manager) checkSlot(slot int) error {
	if slot < 0 || slot >= m.maxSlots {
		return neserr.New(neserr.InvalidSaveState, fmt.Sprintf("invalid save slot %d (must be 0-%d)", slot, m.maxSlots-1))
	}
	return nil
}

func (m *Manager) slotPath(slot int, romPath string) string {
	romName := filepath.Base(romPath)
	romName = romName[:len(romName)-len(filepath.Ext(romName))]
	return filepath.Join(m.directory, fmt.Sprintf("%s_slot_%d.save", romName, slot))
}

// romChecksum hashes romPath's full contents so Load can detect a state
// file captured against a different ROM image even when the path is
// unchanged (e.g. the file was patched or replaced).
func romChecksum(romPath string) (string, error) {
	data, err := os.ReadFile(romPath)
	if err != nil {
		return "", neserr.Wrap(neserr.Io, "reading rom for checksum", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
