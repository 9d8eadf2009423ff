package domain

import (
	"fmt"
	"strings"
)

// ValidateSessionID rejects ids that could escape or alias a session directory.
// Valid ids map one-to-one onto a single child directory of the base dir.
func ValidateSessionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidSessionID)
	}
	if id != strings.TrimSpace(id) {
		return fmt.Errorf("%w: session id has surrounding whitespace", ErrInvalidSessionID)
	}
	if id == "." || id == ".." {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidSessionID, id)
	}
	if strings.ContainsAny(id, "/\\\x00") {
		return fmt.Errorf("%w: session id must not contain path separators", ErrInvalidSessionID)
	}
	return nil
}

// File returns the record of a saved file by name.
func (r *SessionRecord) File(name string) (SessionFile, bool) {
	for _, f := range r.Files {
		if f.Name == name {
			return f, true
		}
	}
	return SessionFile{}, false
}

// PutFile adds f, replacing an existing entry with the same name.
func (r *SessionRecord) PutFile(f SessionFile) {
	for i := range r.Files {
		if r.Files[i].Name == f.Name {
			r.Files[i] = f
			return
		}
	}
	r.Files = append(r.Files, f)
}
