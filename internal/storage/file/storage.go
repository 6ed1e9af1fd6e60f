// Package file stores archive records as JSON files under a data directory:
//
//	archive_lists/{player}.json
//	archives/{player}/{YYYY}/{MM}.json
//	locks/{name}.lock
//
// Every write lands in a temporary file in the target directory and is renamed
// into place, so readers only ever see complete records.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/storage"
)

const (
	indexDir   = "archive_lists"
	archiveDir = "archives"
	lockDir    = "locks"
)

// Storage is a filesystem-backed implementation of the storage interface
type Storage struct {
	root string
}

// New creates the directory layout under root and returns a storage instance
func New(root string) (*Storage, error) {
	for _, dir := range []string{indexDir, archiveDir, lockDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &Storage{root: root}, nil
}

// Ensure Storage implements the interfaces
var (
	_ storage.Storage = (*Storage)(nil)
	_ storage.Locker  = (*Storage)(nil)
)

// Root returns the data directory
func (s *Storage) Root() string {
	return s.root
}

// Player archive index operations

func (s *Storage) GetPlayerIndex(ctx context.Context, player string) ([]byte, error) {
	path, err := s.indexPath(player)
	if err != nil {
		return nil, err
	}
	return readFile(path)
}

func (s *Storage) SavePlayerIndex(ctx context.Context, player string, data []byte) error {
	path, err := s.indexPath(player)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// Month archive operations

func (s *Storage) GetMonthArchive(ctx context.Context, key model.MonthKey) ([]byte, error) {
	path, err := s.monthPath(key)
	if err != nil {
		return nil, err
	}
	return readFile(path)
}

func (s *Storage) SaveMonthArchive(ctx context.Context, key model.MonthKey, data []byte) error {
	path, err := s.monthPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func (s *Storage) ListMonths(ctx context.Context, player string) ([]model.MonthKey, error) {
	if err := checkName(player); err != nil {
		return nil, err
	}

	playerDir := filepath.Join(s.root, archiveDir, player)
	years, err := os.ReadDir(playerDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.MonthKey{}, nil
		}
		return nil, err
	}

	keys := make([]model.MonthKey, 0)
	for _, yearEntry := range years {
		year, err := strconv.Atoi(yearEntry.Name())
		if err != nil || !yearEntry.IsDir() {
			continue
		}
		months, err := os.ReadDir(filepath.Join(playerDir, yearEntry.Name()))
		if err != nil {
			return nil, err
		}
		for _, monthEntry := range months {
			name, ok := strings.CutSuffix(monthEntry.Name(), ".json")
			if !ok || monthEntry.IsDir() {
				continue
			}
			month, err := strconv.Atoi(name)
			if err != nil || month < 1 || month > 12 {
				continue
			}
			keys = append(keys, model.MonthKey{Player: player, Year: year, Month: month})
		}
	}
	slices.SortFunc(keys, model.MonthKey.Compare)
	return keys, nil
}

// Close is a no-op for file storage
func (s *Storage) Close() error {
	return nil
}

func (s *Storage) indexPath(player string) (string, error) {
	if err := checkName(player); err != nil {
		return "", err
	}
	return filepath.Join(s.root, indexDir, player+".json"), nil
}

func (s *Storage) monthPath(key model.MonthKey) (string, error) {
	if err := checkName(key.Player); err != nil {
		return "", err
	}
	return filepath.Join(s.root, archiveDir, key.Player,
		fmt.Sprintf("%04d", key.Year), fmt.Sprintf("%02d.json", key.Month)), nil
}

func (s *Storage) lockPath(name string) string {
	// Lock names contain ':' which is not portable in file names
	return filepath.Join(s.root, lockDir, strings.ReplaceAll(name, ":", "_")+".lock")
}

// checkName rejects names that would escape the data directory
func checkName(player string) error {
	if _, err := model.NormalizePlayer(player); err != nil {
		return err
	}
	if player != strings.ToLower(player) {
		return fmt.Errorf("%w: %q is not lower-case", model.ErrInvalidPlayerName, player)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// writeFileAtomic publishes data at path via a synced temporary file and rename
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
