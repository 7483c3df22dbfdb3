package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single JSON Lines record.
const maxLineSize = 20 * 1024 * 1024

// Load reads a catalog from path. "-" reads from stdin.
func Load(path string) ([]Record, error) {
	if path == "-" {
		records, err := Decode(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to decode catalog from stdin: %w", err)
		}
		return records, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}
	return records, nil
}

// Decode parses either a JSON array of records or JSON Lines, picking the
// format from the first non-space byte.
func Decode(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)

	first, skipped, err := peekNonSpace(br)
	if err == io.EOF {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	if first == '[' {
		return decodeArray(br)
	}

	return decodeLines(br, skipped)
}

func decodeArray(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}
	// Only whitespace may follow the array.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON array at offset %d", dec.InputOffset())
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// decodeLines reads JSON Lines. lineNo starts at the number of blank lines
// already consumed ahead of r.
func decodeLines(r io.Reader, lineNo int) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), maxLineSize)

	records := make([]Record, 0)
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// peekNonSpace skips leading whitespace and a BOM, returning the next byte
// unread along with the number of newlines skipped.
func peekNonSpace(br *bufio.Reader) (byte, int, error) {
	newlines := 0
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, newlines, err
		}
		switch b {
		case '\n':
			newlines++
			continue
		case ' ', '\t', '\r':
			continue
		case 0xEF:
			// UTF-8 BOM
			if next, err := br.Peek(2); err == nil && next[0] == 0xBB && next[1] == 0xBF {
				_, _ = br.Discard(2)
				continue
			}
		}
		if err := br.UnreadByte(); err != nil {
			return 0, newlines, err
		}
		return b, newlines, nil
	}
}
