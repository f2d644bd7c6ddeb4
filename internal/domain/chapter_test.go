package domain

import (
	"testing"
	"time"
)

func TestFormatTimestampCanonicalForms(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{65, "1:05"},
		{2730, "45:30"},
		{3600, "1:00:00"},
		{4445, "1:14:05"},
		{36000, "10:00:00"},
	}

	for _, tc := range cases {
		got := FormatTimestamp(time.Duration(tc.seconds) * time.Second)
		if got != tc.want {
			t.Errorf("FormatTimestamp(%ds) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		token   string
		seconds int
		ok      bool
	}{
		{"0:00", 0, true},
		{"4:10", 250, true},
		{"04:10", 250, true},
		{"45:30", 2730, true},
		{"1:14:05", 4445, true},
		{"01:14:05", 4445, true},
		{"1:74:05", 0, false},
		{"1:05:61", 0, false},
		{"105", 0, false},
		{"1:2:3:4", 0, false},
		{"a:10", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseTimestamp(tc.token)
		if ok != tc.ok {
			t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tc.token, ok, tc.ok)
			continue
		}
		if ok && got != time.Duration(tc.seconds)*time.Second {
			t.Errorf("ParseTimestamp(%q) = %v, want %ds", tc.token, got, tc.seconds)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, token := range []string{"0:00", "4:10", "45:30", "1:14:05"} {
		d, ok := ParseTimestamp(token)
		if !ok {
			t.Fatalf("ParseTimestamp(%q) failed", token)
		}
		if got := FormatTimestamp(d); got != token {
			t.Errorf("round trip %q -> %q", token, got)
		}
	}
}

func TestChapterListRender(t *testing.T) {
	list := &ChapterList{
		Markers: []ChapterMarker{
			{Offset: 0, Title: "Intro"},
			{Offset: 250 * time.Second, Title: "Recap"},
		},
		Hashtags: []string{"#nixos", "#linux"},
	}

	want := "0:00 Intro\n4:10 Recap\n\n#nixos #linux"
	if got := list.Render(); got != want {
		t.Fatalf("unexpected render:\n got %q\nwant %q", got, want)
	}
}

func TestChapterListRenderWithoutHashtags(t *testing.T) {
	list := &ChapterList{
		Markers: []ChapterMarker{{Offset: 0, Title: "Only"}},
	}
	if got := list.Render(); got != "0:00 Only" {
		t.Fatalf("unexpected render: %q", got)
	}
}
