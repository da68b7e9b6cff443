package domain

import "path/filepath"

// InboxFile is a directory entry waiting to be classified by the gatekeeper.
type InboxFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// NewInboxFile builds an InboxFile for name inside dir.
func NewInboxFile(dir, name string, size int64) InboxFile {
	return InboxFile{
		Name: name,
		Path: filepath.Join(dir, name),
		Size: size,
	}
}

// RejectReason names the first file check an inbox file failed.
type RejectReason string

const (
	RejectNone      RejectReason = ""
	RejectExtension RejectReason = "extension"
	RejectDuplicate RejectReason = "duplicate"
	RejectEmpty     RejectReason = "empty"
)

// Verdict is the gatekeeper decision for a single file.
type Verdict struct {
	File        InboxFile    `json:"file"`
	Accepted    bool         `json:"accepted"`
	Reason      RejectReason `json:"reason,omitempty"`
	Destination string       `json:"destination,omitempty"`
}

// Accept returns an accepting verdict for file.
func Accept(file InboxFile) Verdict {
	return Verdict{File: file, Accepted: true}
}

// Reject returns a rejecting verdict for file.
func Reject(file InboxFile, reason RejectReason) Verdict {
	return Verdict{File: file, Reason: reason}
}

// Label is the human readable verdict used in logs and reports.
func (v Verdict) Label() string {
	if v.Accepted {
		return "accepted"
	}
	return "rejected"
}

// Err returns the rejection as an *InvalidFileError, or nil when accepted.
func (v Verdict) Err() error {
	if v.Accepted {
		return nil
	}
	return &InvalidFileError{File: v.File.Name, Reason: v.Reason}
}
