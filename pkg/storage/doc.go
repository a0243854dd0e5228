// Package storage lays out an account's output directory and writes files
// into it atomically.
//
// Every file goes through a temporary sibling and a rename, so an
// interrupted run never leaves a half-written record or report behind.
// Record names follow records.FileName; when several posts share a date the
// Manager hands out _2, _3, ... suffixes in the order posts are saved.
//
//	m, err := storage.NewManager("output", "alice")
//	if err != nil {
//	    return err
//	}
//	path, err := m.SaveRecord(rec)
package storage
