package ioexport

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/pokedexdb/pokedexdb/pkg/reconcile"
)

// jsonAPI writes indented JSON. Objects built by hand keep the order of
// their members, maps inside entries are sorted.
var jsonAPI = jsoniter.Config{
	EscapeHTML:    false,
	SortMapKeys:   true,
	IndentionStep: 2,
}.Froze()

// encodeVersion renders a reconciled version as
// {update, game_version, pokedex: {dex: {no: {id: entry}}}}. Pokedexes
// and dex numbers keep the order of the result.
func encodeVersion(update string, res *reconcile.Result) ([]byte, error) {
	s := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(s)

	s.WriteObjectStart()
	s.WriteObjectField("update")
	s.WriteString(update)
	s.WriteMore()
	s.WriteObjectField("game_version")
	s.WriteString(res.Version)
	s.WriteMore()
	s.WriteObjectField("pokedex")
	s.WriteObjectStart()
	for i, dex := range res.Dexes {
		if i > 0 {
			s.WriteMore()
		}
		s.WriteObjectField(dex.Name)
		writeDex(s, dex.Entries)
	}
	s.WriteObjectEnd()
	s.WriteObjectEnd()

	if s.Error != nil {
		return nil, s.Error
	}
	return append([]byte(nil), s.Buffer()...), nil
}

// writeDex groups entries by their dex number. Entries are sorted by
// number already, so every number forms one run.
func writeDex(s *jsoniter.Stream, entries []reconcile.MergedEntry) {
	s.WriteObjectStart()
	start := 0
	for start < len(entries) {
		if start > 0 {
			s.WriteMore()
		}
		no := entries[start].No
		end := start
		for end < len(entries) && entries[end].No == no {
			end++
		}

		s.WriteObjectField(no)
		s.WriteObjectStart()
		for i, e := range entries[start:end] {
			if i > 0 {
				s.WriteMore()
			}
			s.WriteObjectField(e.ID)
			s.WriteVal(e)
		}
		s.WriteObjectEnd()
		start = end
	}
	s.WriteObjectEnd()
}

// writeAtomic writes data to a temporary file next to path and renames
// it, so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return WriteError(path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return WriteError(path, err)
	}
	tmpPath := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return WriteError(path, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return WriteError(path, err)
	}
	if err = os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return WriteError(path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return WriteError(path, err)
	}
	return nil
}
