package domain

import "time"

// ChatMessage is one renderable message from a live chat replay.
type ChatMessage struct {
	Offset time.Duration
	Author string
	Text   string
	URLs   []string
}

// URLRef is a URL shared in chat together with when it appeared.
type URLRef struct {
	Offset time.Duration
	URL    string
}
