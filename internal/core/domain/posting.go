package domain

// PostingResult is the outcome of submitting a business event.
// Duplicate marks an idempotency hit: the original entry's sequence is
// returned and no balances changed. Waived marks a commission event whose
// policy waived the fee, so no entry was produced.
type PostingResult struct {
	Sequence  int64  `json:"sequence"`
	EntryID   string `json:"entryID"`
	Duplicate bool   `json:"duplicate"`
	Waived    bool   `json:"waived"`
}
