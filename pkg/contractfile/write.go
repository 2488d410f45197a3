package contractfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pactlab/pactmock/pkg/pact"
)

// Write merges contract into whatever "{consumer}-{provider}.json" file
// already exists under dir (if any) and writes the result atomically,
// holding an exclusive advisory lock for the read-merge-write sequence
// so two processes writing the same pair concurrently cannot interleave.
// If overwrite is true, the existing file's interactions are discarded
// instead of merged — contract becomes the whole file.
func Write(dir string, contract *pact.Contract, overwrite bool) error {
	if err := contract.Validate(); err != nil {
		return fmt.Errorf("contract is invalid, refusing to write: %w", err)
	}

	path := filepath.Join(dir, contract.FileName())
	lock, err := acquireLock(path)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	final := contract
	if !overwrite {
		if existing, readErr := readExisting(path); readErr != nil {
			return readErr
		} else if existing != nil {
			merged, mergeErr := Merge(existing, contract)
			if mergeErr != nil {
				return mergeErr
			}
			final = merged
		}
	}

	data, err := pact.MarshalContract(final)
	if err != nil {
		return fmt.Errorf("marshal merged contract: %w", err)
	}
	return writeAtomic(path, data)
}

func readExisting(path string) (*pact.Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read existing contract file %s: %w", path, err)
	}
	existing, err := pact.UnmarshalContract(data)
	if err != nil {
		return nil, fmt.Errorf("parse existing contract file %s: %w", path, err)
	}
	return existing, nil
}

// writeAtomic writes data to a temp file in the same directory as path
// and renames it into place, so a concurrent reader never observes a
// truncated or partially-written contract file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".contractfile-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp contract file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp contract file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp contract file into place: %w", err)
	}
	return nil
}
