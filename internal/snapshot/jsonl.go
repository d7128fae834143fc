package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"grievance-analytics/internal/grievance"
)

// DecodeJSONL reads one report per line. Invalid lines are skipped with a warning.
func DecodeJSONL(r io.Reader, origin string) ([]grievance.Report, error) {
	reports := make([]grievance.Report, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rep grievance.Report
		if err := json.Unmarshal(scanner.Bytes(), &rep); err != nil {
			log.Warn().Err(err).Str("origin", origin).Int("line", line).Msg("Skipping invalid JSON line in snapshot")
			continue
		}
		reports = append(reports, rep)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading snapshot: %w", err)
	}
	return reports, nil
}

// ReadJSONL loads a JSONL snapshot file.
func ReadJSONL(path string) ([]grievance.Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return DecodeJSONL(file, path)
}

// WriteJSONL writes reports to path through a unique temp file in the same
// directory and an atomic rename.
func WriteJSONL(path string, reports []grievance.Report) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	file, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tmpPath := file.Name()

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, r := range reports {
		if err := encoder.Encode(r); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode report %s: %w", r.ID, err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	// CreateTemp opens with 0600.
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set snapshot file mode: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}
	return nil
}
