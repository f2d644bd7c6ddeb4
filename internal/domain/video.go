package domain

// VideoInfo is the metadata subset of the downloader's JSON dump that the
// pipeline needs.
type VideoInfo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	WasLive     bool    `json:"was_live"`
}
