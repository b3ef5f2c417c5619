package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	initialLineBuffer = 64 * 1024
	maxLineBuffer     = 10 * 1024 * 1024
)

// ReadStats counts what happened to each line of a session file
type ReadStats struct {
	Lines     int // Non-empty lines seen
	Malformed int // Lines that were not a JSON object
}

// ParseRecords parses JSONL content and returns all decodable records.
// Malformed lines, including lines longer than maxLineBuffer, are skipped
// silently; only reader failures are returned.
func ParseRecords(r io.Reader) ([]Record, ReadStats, error) {
	var records []Record
	var stats ReadStats

	reader := bufio.NewReaderSize(r, initialLineBuffer)
	for {
		line, tooLong, err := readLine(reader)
		if tooLong {
			stats.Lines++
			stats.Malformed++
		} else if len(line) > 0 {
			stats.Lines++

			var rec Record
			if jsonErr := json.Unmarshal(line, &rec); jsonErr != nil {
				stats.Malformed++
			} else {
				records = append(records, rec)
			}
		}

		if err == io.EOF {
			return records, stats, nil
		}
		if err != nil {
			return records, stats, err
		}
	}
}

// readLine returns the next line without its line ending. A line longer
// than maxLineBuffer is consumed up to its newline and reported as tooLong
// without being kept in memory.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, readErr := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineBuffer {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if readErr == bufio.ErrBufferFull {
			continue
		}
		if tooLong {
			return nil, true, readErr
		}
		return bytes.TrimRight(line, "\r\n"), false, readErr
	}
}

// ErrUnreadable is returned when a session file cannot be opened
var ErrUnreadable = errors.New("cannot open session file")

// ReadFile reads all records from a session file.
// The file is closed before returning, including when a line fails to scan;
// records read before a scan failure are still returned alongside the error.
func ReadFile(path string) ([]Record, ReadStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer file.Close()

	records, stats, err := ParseRecords(file)
	for i := range records {
		records[i].Source = path
	}
	return records, stats, err
}
