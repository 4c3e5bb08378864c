package tune

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const trialsDirName = "trials"

// TrialStore persists finished trials as JSON under a project directory:
//
//	<root>/<project>/trials/<trial-id>/trial.json
//	<root>/<project>/trials/index.jsonl
//
// The per-trial directory is also where the trial's checkpoints live.
type TrialStore struct {
	projectDir string
	writeIndex bool
}

// IndexEntry is one line of the JSONL index.
type IndexEntry struct {
	ID          string      `json:"id"`
	Status      TrialStatus `json:"status"`
	Score       float64     `json:"score"`
	CompletedAt time.Time   `json:"completed_at"`
}

// NewTrialStore creates a store rooted at dir/project.
func NewTrialStore(dir, project string) *TrialStore {
	return &TrialStore{
		projectDir: filepath.Join(dir, project),
		writeIndex: true,
	}
}

// ProjectDir returns the project root directory.
func (s *TrialStore) ProjectDir() string {
	return s.projectDir
}

// TrialDir returns the directory for one trial, creating it if needed.
func (s *TrialStore) TrialDir(trialID string) (string, error) {
	dir := filepath.Join(s.projectDir, trialsDirName, trialID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create trial dir: %w", err)
	}
	return dir, nil
}

// Save writes one trial's JSON and appends it to the index. The write
// goes to a temp file first so a crash never leaves a torn trial.json.
func (s *TrialStore) Save(trial *Trial) error {
	dir, err := s.TrialDir(trial.ID)
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(trial, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal trial %s: %w", trial.ID, err)
	}

	path := filepath.Join(dir, "trial.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("failed to write trial %s: %w", trial.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to finalize trial %s: %w", trial.ID, err)
	}

	if s.writeIndex {
		if err := s.appendIndex(trial); err != nil {
			return fmt.Errorf("failed to index trial %s: %w", trial.ID, err)
		}
	}
	return nil
}

func (s *TrialStore) appendIndex(trial *Trial) error {
	line, err := json.Marshal(IndexEntry{
		ID:          trial.ID,
		Status:      trial.Status,
		Score:       trial.Score,
		CompletedAt: trial.CompletedAt,
	})
	if err != nil {
		return err
	}

	path := filepath.Join(s.projectDir, trialsDirName, "index.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return f.Sync()
}

// Load reads all persisted trials, ordered by start time.
func (s *TrialStore) Load() ([]*Trial, error) {
	root := filepath.Join(s.projectDir, trialsDirName)
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read trials dir: %w", err)
	}

	var trials []*Trial
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, entry.Name(), "trial.json")
		b, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue // trial directory without a finished trial.json
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var trial Trial
		if err := json.Unmarshal(b, &trial); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		trials = append(trials, &trial)
	}

	sort.Slice(trials, func(i, j int) bool {
		return trials[i].StartedAt.Before(trials[j].StartedAt)
	})
	return trials, nil
}

// Index reads the JSONL index without touching per-trial files.
func (s *TrialStore) Index() ([]IndexEntry, error) {
	path := filepath.Join(s.projectDir, trialsDirName, "index.jsonl")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer f.Close()

	var entries []IndexEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e IndexEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("corrupt index line: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}
