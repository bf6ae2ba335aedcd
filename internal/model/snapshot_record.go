package model

// SnapshotRecord is one coin of a completed dataset written to the snapshot sink.
type SnapshotRecord struct {
	FetchedAt string `json:"fetched_at"`
	Currency  string `json:"currency"`
	Coin
}
