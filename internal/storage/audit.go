package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const auditBufferKB = 64

// AuditEvent is one line of the jsonl audit trail: a run/kill/attach
// decision recorded by a caller of AuditLog (the job controller itself
// writes none), for a human to later reconstruct what
// happened to a job outside of the remote service's own (possibly
// truncated) history.
type AuditEvent struct {
	Time   time.Time `json:"time"`
	Action string    `json:"action"` // "run", "attach", "kill", "kill_all"
	JobID  string    `json:"job_id"`
	Suffix string    `json:"suffix,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// AuditLog appends AuditEvents to a timestamped jsonl file under
// ~/.flowctl/projects/<project-id>/audit/, one file per process lifetime —
// adapted from the teacher's JSONLWriter, which likewise opens one
// timestamped file per run rather than appending to a single growing log.
type AuditLog struct {
	file   *os.File
	writer *bufio.Writer
}

// OpenAuditLog creates (if needed) the audit directory and opens a new
// timestamped jsonl file for this process.
func OpenAuditLog(projectID string) (*AuditLog, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".flowctl", "projects", sanitizeFilename(projectID), "audit")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}

	name := fmt.Sprintf("%s.jsonl", time.Now().Format("2006-01-02T15-04-05"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("creating audit log file: %w", err)
	}

	return &AuditLog{file: f, writer: bufio.NewWriterSize(f, auditBufferKB*1024)}, nil
}

// Write appends one event as a single JSON line.
func (a *AuditLog) Write(ev AuditEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding audit event: %w", err)
	}
	if _, err := a.writer.Write(data); err != nil {
		return fmt.Errorf("writing audit event: %w", err)
	}
	return a.writer.WriteByte('\n')
}

// Close flushes buffered events and closes the underlying file.
func (a *AuditLog) Close() error {
	if err := a.writer.Flush(); err != nil {
		return fmt.Errorf("flushing audit log: %w", err)
	}
	return a.file.Close()
}
