// Package store reads and writes the bot's flat data files: line-delimited
// username and species lists, and tab-delimited records for custom shoutouts,
// auto responses, and the flowermons capture ledger. Files are rewritten in
// full on every mutation; writes go through a temp file and rename so a
// failed rewrite never truncates the previous contents.
package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LedgerEntry is one user's caught and shiny species sets.
type LedgerEntry struct {
	Caught map[string]bool
	Shiny  map[string]bool
}

// ReadLines returns the non-empty, normalized lines of a line-delimited list
// file. A missing file is not an error; it reads as an empty list.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return out, nil
}

// WriteLines rewrites a line-delimited list file.
func WriteLines(path string, lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return writeFileAtomic(path, []byte(b.String()))
}

// ReadTSV reads a tab-delimited file with a header row and returns one map per
// data row, keyed by header column name. Rows with fewer columns than the
// header are skipped.
func ReadTSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, sc.Err()
	}
	header := strings.Split(sc.Text(), "\t")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < len(header) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = strings.TrimSpace(fields[i])
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return rows, nil
}

// ReadLedger loads the capture ledger: one row per (user, species) pair with
// an optional SHINY marker in the third column.
func ReadLedger(path string) (map[string]*LedgerEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*LedgerEntry{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ledger := map[string]*LedgerEntry{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) < 2 {
			continue
		}
		user := strings.ToLower(strings.TrimSpace(fields[0]))
		species := strings.ToLower(strings.TrimSpace(fields[1]))
		if user == "" || species == "" {
			continue
		}
		entry := ledger[user]
		if entry == nil {
			entry = &LedgerEntry{Caught: map[string]bool{}, Shiny: map[string]bool{}}
			ledger[user] = entry
		}
		entry.Caught[species] = true
		if len(fields) > 2 && strings.EqualFold(strings.TrimSpace(fields[2]), "SHINY") {
			entry.Shiny[species] = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return ledger, nil
}

// WriteLedger rewrites the capture ledger in full. Rows are sorted by user
// then species so the file diffs cleanly between rewrites.
func WriteLedger(path string, ledger map[string]*LedgerEntry) error {
	users := make([]string, 0, len(ledger))
	for u := range ledger {
		users = append(users, u)
	}
	sort.Strings(users)

	var b strings.Builder
	for _, user := range users {
		entry := ledger[user]
		species := make([]string, 0, len(entry.Caught))
		for s := range entry.Caught {
			species = append(species, s)
		}
		sort.Strings(species)
		for _, s := range species {
			marker := ""
			if entry.Shiny[s] {
				marker = "SHINY"
			}
			fmt.Fprintf(&b, "%s\t%s\t%s\n", user, s, marker)
		}
	}
	return writeFileAtomic(path, []byte(b.String()))
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
