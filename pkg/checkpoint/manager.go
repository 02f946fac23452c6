package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MetadataVersion is the current checkpoint metadata format version.
const MetadataVersion = 1

// Sentinel errors for checkpoint validation.
var (
	ErrFilePathMismatch = errors.New("file path mismatch")
	ErrBlockIDMismatch  = errors.New("block id mismatch")
)

// DefaultDir returns the default checkpoint directory (~/.lineforge/checkpoints).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return filepath.Join(home, ".lineforge", "checkpoints")
}

// FileHash computes a short hash of a file's path for use as a directory name.
func FileHash(filePath string) string {
	h := sha256.Sum256([]byte(filePath))

	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars.
}

// Default retention values.
const (
	DefaultMaxAge  = 30 * 24 * time.Hour // 30 days.
	DefaultMaxSize = 1 << 30             // 1GB.
)

// Directory permissions for checkpoints.
const dirPerm = 0o750

// Snapshotter is implemented by components (the rbtree-backed line store, a
// Block's materialized state) that can serialize and restore themselves into
// a directory handed to them by Manager.
type Snapshotter interface {
	// SaveSnapshot writes component state to the given directory.
	SaveSnapshot(dir string) error

	// LoadSnapshot restores component state from the given directory.
	LoadSnapshot(dir string) error

	// SnapshotSize returns the estimated size of the snapshot in bytes.
	SnapshotSize() int64
}

// Manager coordinates on-disk checkpoints for one File and its Blocks.
type Manager struct {
	BaseDir  string
	FileHash string
	MaxAge   time.Duration
	MaxSize  int64
}

// NewManager creates a new checkpoint manager.
func NewManager(baseDir, fileHash string) *Manager {
	return &Manager{
		BaseDir:  baseDir,
		FileHash: fileHash,
		MaxAge:   DefaultMaxAge,
		MaxSize:  DefaultMaxSize,
	}
}

// CheckpointDir returns the directory for this file's checkpoint.
func (m *Manager) CheckpointDir() string {
	return filepath.Join(m.BaseDir, m.FileHash)
}

// MetadataPath returns the path to the metadata file.
func (m *Manager) MetadataPath() string {
	return filepath.Join(m.CheckpointDir(), "checkpoint.json")
}

// Exists returns true if the checkpoint's metadata file exists; its
// contents are not checked.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.MetadataPath())

	return err == nil
}

// Clear removes the checkpoint for the current file.
func (m *Manager) Clear() error {
	cpDir := m.CheckpointDir()

	_, statErr := os.Stat(cpDir)
	if os.IsNotExist(statErr) {
		return nil
	}

	err := os.RemoveAll(cpDir)
	if err != nil {
		return fmt.Errorf("remove checkpoint dir: %w", err)
	}

	return nil
}

// Save writes a checkpoint covering every snapshotter (typically one per
// Block plus the File's line store).
func (m *Manager) Save(
	snapshotters []Snapshotter,
	state SessionState,
	filePath string,
	blockIDs []string,
) error {
	cpDir := m.CheckpointDir()

	err := os.MkdirAll(cpDir, dirPerm)
	if err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	checksums := make(map[string]string)

	for i, snap := range snapshotters {
		compDir := filepath.Join(cpDir, fmt.Sprintf("component_%d", i))

		mkdirErr := os.MkdirAll(compDir, dirPerm)
		if mkdirErr != nil {
			return fmt.Errorf("create component dir: %w", mkdirErr)
		}

		saveErr := snap.SaveSnapshot(compDir)
		if saveErr != nil {
			return fmt.Errorf("save snapshot for component %d: %w", i, saveErr)
		}
	}

	meta := Metadata{
		Version:      MetadataVersion,
		FilePath:     filePath,
		FileHash:     m.FileHash,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		BlockIDs:     blockIDs,
		SessionState: state,
		Checksums:    checksums,
	}

	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	writeErr := os.WriteFile(m.MetadataPath(), metaData, 0o600)
	if writeErr != nil {
		return fmt.Errorf("write metadata: %w", writeErr)
	}

	return nil
}

// LoadMetadata loads the checkpoint metadata.
func (m *Manager) LoadMetadata() (*Metadata, error) {
	data, err := os.ReadFile(m.MetadataPath())
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta Metadata

	unmarshalErr := json.Unmarshal(data, &meta)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", unmarshalErr)
	}

	return &meta, nil
}

// Load restores state for every snapshotter, in the same order Save received them.
func (m *Manager) Load(snapshotters []Snapshotter) (*SessionState, error) {
	meta, err := m.LoadMetadata()
	if err != nil {
		return nil, err
	}

	cpDir := m.CheckpointDir()

	for i, snap := range snapshotters {
		compDir := filepath.Join(cpDir, fmt.Sprintf("component_%d", i))

		loadErr := snap.LoadSnapshot(compDir)
		if loadErr != nil {
			return nil, fmt.Errorf("load snapshot for component %d: %w", i, loadErr)
		}
	}

	return &meta.SessionState, nil
}

// Validate checks if the checkpoint is valid for the given parameters.
func (m *Manager) Validate(filePath string, blockIDs []string) error {
	meta, err := m.LoadMetadata()
	if err != nil {
		return err
	}

	if meta.FilePath != filePath {
		return fmt.Errorf("%w: checkpoint has %q, got %q", ErrFilePathMismatch, meta.FilePath, filePath)
	}

	if !stringSlicesEqual(meta.BlockIDs, blockIDs) {
		return fmt.Errorf("%w: checkpoint has %v, got %v", ErrBlockIDMismatch, meta.BlockIDs, blockIDs)
	}

	return nil
}

// stringSlicesEqual compares two string slices for equality.
func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
