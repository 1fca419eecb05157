package model

import "time"

// Revision describes the checked out commit of a fetched repository
type Revision struct {
	Hash    string
	Branch  string
	Author  string
	Subject string
	When    time.Time
}

// ShortHash returns the abbreviated commit hash
func (r *Revision) ShortHash() string {
	if len(r.Hash) > 12 {
		return r.Hash[:12]
	}
	return r.Hash
}
