package model

import "github.com/google/uuid"

// ensureID assigns a fresh UUID before insert. The SQL schema also defaults
// ids with gen_random_uuid(), but setting it here keeps the value available
// to the caller without a re-read.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
