package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fxi-data/internal/saver"
)

const (
	SuccessReport = ".lastrun.success.json"
	FailedReport  = ".lastrun.failed.json"
)

type successEntry struct {
	RunID     string `json:"run_id"`
	Symbol    string `json:"symbol"`
	From      string `json:"from"`
	Last      string `json:"last,omitempty"`
	Published int    `json:"published"`
	Skipped   int    `json:"skipped"`
}

type failedEntry struct {
	RunID  string `json:"run_id"`
	Symbol string `json:"symbol"`
	State  string `json:"state"`
	Day    string `json:"day,omitempty"`
	Reason string `json:"reason"`
}

// WriteRunReport writes the finished and failed symbols of s into dir. The
// files are replaced atomically; a kind with no entries is left untouched.
// It returns the run id stamped on every entry.
func WriteRunReport(dir string, s Summary) (string, error) {
	id := uuid.NewString()
	var ok []successEntry
	var failed []failedEntry
	for _, r := range s.Results {
		if r.State == Done {
			e := successEntry{RunID: id, Symbol: r.Symbol, From: dateOf(r.From), Published: r.Published, Skipped: r.Skipped}
			if !r.Last.IsZero() {
				e.Last = dateOf(r.Last)
			}
			ok = append(ok, e)
			continue
		}
		e := failedEntry{RunID: id, Symbol: r.Symbol, State: r.State.String(), Reason: errorOf(r)}
		if r.Err != nil {
			e.Day = dateOf(r.Err.Day)
		}
		failed = append(failed, e)
	}
	if len(ok) > 0 {
		p := filepath.Join(dir, SuccessReport)
		if err := writeJSON(p, ok); err != nil {
			return id, err
		}
		slog.Info("report wrote success", "path", p, "symbols", len(ok))
	}
	if len(failed) > 0 {
		p := filepath.Join(dir, FailedReport)
		if err := writeJSON(p, failed); err != nil {
			return id, err
		}
		slog.Info("report wrote failed", "path", p, "count", len(failed))
	}
	return id, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return saver.WriteFileAtomic(path, data)
}

func dateOf(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
