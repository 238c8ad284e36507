package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// LogRotator is a file writer that keeps roughly the last maxLines lines.
// Once twice that many lines have been written, the file is rewritten with
// only the most recent maxLines.
type LogRotator struct {
	mu       sync.Mutex
	file     *os.File
	path     string
	maxLines int
	recent   [][]byte // ring of the last maxLines lines
	head     int
	written  int // lines written since the last rewrite
}

// OpenLogRotator opens path for appending.
func OpenLogRotator(path string, maxLines int) (*LogRotator, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	return &LogRotator{
		file:     file,
		path:     path,
		maxLines: max(maxLines, 1),
		recent:   make([][]byte, 0, max(maxLines, 1)),
	}, nil
}

// Write implements io.Writer.
func (w *LogRotator) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}

	for line := range bytes.SplitSeq(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.remember(line)

		if w.written >= w.maxLines*2 {
			if err := w.rotate(); err != nil {
				return n, fmt.Errorf("failed to rotate log file: %w", err)
			}
		}
	}

	return n, nil
}

// Sync flushes the file.
func (w *LogRotator) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Sync()
}

// Close closes the file.
func (w *LogRotator) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Close()
}

func (w *LogRotator) remember(line []byte) {
	line = bytes.Clone(line)
	if len(w.recent) < w.maxLines {
		w.recent = append(w.recent, line)
	} else {
		w.recent[w.head] = line
		w.head = (w.head + 1) % w.maxLines
	}
	w.written++
}

// lines returns the remembered lines oldest first.
func (w *LogRotator) lines() [][]byte {
	if len(w.recent) < w.maxLines {
		return w.recent
	}
	return append(append([][]byte(nil), w.recent[w.head:]...), w.recent[:w.head]...)
}

// rotate replaces the file with the remembered lines.
func (w *LogRotator) rotate() error {
	temp, err := os.CreateTemp(filepath.Dir(w.path), "temp-log-")
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	content := append(bytes.Join(w.lines(), []byte("\n")), '\n')
	if _, err := temp.Write(content); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return err
	}

	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	w.file.Close()

	// Windows cannot rename over an existing file
	os.Remove(w.path)

	if err := os.Rename(tempPath, w.path); err != nil {
		return err
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w.file = file
	w.written = len(w.recent)
	return nil
}
