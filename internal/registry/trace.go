package registry

// Attempt records one backend's try at a document.
type Attempt struct {
	Backend string // Backend name.
	Skipped bool   // QuickCheck rejected the document.
	Chars   int    // Bytes of text returned.
	Err     error  // Failure, including empty output.
}

// Outcome summarises the attempt for logs and metrics.
func (a Attempt) Outcome() string {
	switch {
	case a.Skipped:
		return "skipped"
	case a.Err != nil:
		return "error"
	default:
		return "ok"
	}
}
