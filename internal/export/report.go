package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	successReport = ".lastrun.success.json"
	failedReport  = ".lastrun.failed.json"
)

// Failure records why one ticker was not exported.
type Failure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// writeRunReport stores the last run's outcome next to the packets.
// A list that is empty leaves its previous report file untouched.
func writeRunReport(dir string, success []string, failed []Failure) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if len(success) > 0 {
		if err := writeJSON(filepath.Join(dir, successReport), success); err != nil {
			return err
		}
	}
	if len(failed) > 0 {
		if err := writeJSON(filepath.Join(dir, failedReport), failed); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// joinFailures renders at most five failures for a log line.
func joinFailures(failed []Failure) string {
	var b strings.Builder
	for i, f := range failed {
		if i == 5 {
			fmt.Fprintf(&b, " (+%d more)", len(failed)-5)
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Ticker)
		b.WriteString(": ")
		b.WriteString(f.Reason)
	}
	return b.String()
}
