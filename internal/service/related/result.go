package related

// ImportResult contains the outcome of an import.
type ImportResult struct {
	Saved    int
	Rejected []Rejection
}

// Rejection describes an input item that was not stored.
type Rejection struct {
	Index int
	Err   error
}
