package model

// UploadResult represents the outcome of reconciling local files with release assets
type UploadResult struct {
	Uploaded   []string // Local paths uploaded in this run
	Duplicated []string // Asset names skipped because they already exist
}

// DownloadResult represents a downloaded asset
type DownloadResult struct {
	Asset       Asset
	Destination string
	Size        int64 // Bytes written
}
