package caption

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kanno/yt-chapters-go/pkg/errors"
)

const srtSample = `1
00:00:00,000 --> 00:00:02,500
welcome back everyone

2
00:00:02,500 --> 00:00:05,000
welcome back everyone

3
00:00:05,000 --> 00:00:08,200
today we look at
flakes

4
00:00:08,200 --> 00:00:11,000
and home manager
`

func TestParseCollapsesConsecutiveDuplicates(t *testing.T) {
	entries, err := Parse(strings.NewReader(srtSample))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// 4 blocks, 2 consecutive duplicates -> 3 entries.
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %v", len(entries), entries)
	}

	if entries[0].Text != "welcome back everyone" {
		t.Fatalf("unexpected first entry: %q", entries[0].Text)
	}
	if entries[0].Start != 0 {
		t.Fatalf("expected earliest start retained, got %v", entries[0].Start)
	}
	if entries[0].End != 5*time.Second {
		t.Fatalf("expected merged end of 5s, got %v", entries[0].End)
	}

	if entries[1].Text != "today we look at flakes" {
		t.Fatalf("expected multi-line block joined with space, got %q", entries[1].Text)
	}
}

func TestParsePreservesChronologicalOrder(t *testing.T) {
	entries, err := Parse(strings.NewReader(srtSample))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for i := 1; i < len(entries); i++ {
		if entries[i].Start < entries[i-1].Start {
			t.Fatalf("entries out of order at %d: %v before %v", i, entries[i-1].Start, entries[i].Start)
		}
	}
}

func TestParseAcceptsVTT(t *testing.T) {
	vtt := `WEBVTT
Kind: captions
Language: en

00:00:00.160 --> 00:00:02.350
<c>hello world</c>

00:00:02.350 --> 00:00:04.000
goodbye
`
	entries, err := Parse(strings.NewReader(vtt))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Text != "hello world" {
		t.Fatalf("expected inline tags stripped, got %q", entries[0].Text)
	}
	if entries[0].Start != 160*time.Millisecond {
		t.Fatalf("unexpected start: %v", entries[0].Start)
	}
}

func TestParseEmptyInputFails(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if !errors.HasCode(err, errors.CodeParse) {
		t.Fatalf("expected parse error code, got %v", err)
	}
}

func TestParseProseOnlyInputFails(t *testing.T) {
	_, err := Parse(strings.NewReader("this file has\nno caption blocks at all\n"))
	if err == nil {
		t.Fatal("expected error for input with zero valid blocks")
	}
	if !errors.HasCode(err, errors.CodeParse) {
		t.Fatalf("expected parse error code, got %v", err)
	}
}

func TestTranscriptJoinsWithSpaces(t *testing.T) {
	entries, err := Parse(strings.NewReader(srtSample))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got := Transcript(entries)
	want := "welcome back everyone today we look at flakes and home manager"
	if got != want {
		t.Fatalf("unexpected transcript:\n got %q\nwant %q", got, want)
	}
}

func TestTimedTranscriptKeepsTimestamps(t *testing.T) {
	entries, err := Parse(strings.NewReader(srtSample))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got := TimedTranscript(entries)
	if !strings.HasPrefix(got, "[0:00] welcome back everyone") {
		t.Fatalf("expected timestamp prefix, got %q", got)
	}
	if !strings.Contains(got, "[0:08] and home manager") {
		t.Fatalf("expected canonical timestamps, got %q", got)
	}
}

func TestDedupePropertyAcrossRuns(t *testing.T) {
	// N blocks with K consecutive duplicates must yield N-K+1 entries
	// per duplicated run.
	var b strings.Builder
	texts := []string{"a", "a", "a", "b", "a", "c", "c"}
	for i, text := range texts {
		start := time.Duration(i) * 2 * time.Second
		b.WriteString(srtBlock(i+1, start, start+2*time.Second, text))
	}

	entries, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantTexts := []string{"a", "b", "a", "c"}
	if len(entries) != len(wantTexts) {
		t.Fatalf("expected %d entries, got %d", len(wantTexts), len(entries))
	}
	for i, want := range wantTexts {
		if entries[i].Text != want {
			t.Fatalf("entry %d: expected %q, got %q", i, want, entries[i].Text)
		}
	}
}

func srtBlock(index int, start, end time.Duration, text string) string {
	format := func(d time.Duration) string {
		total := int(d / time.Second)
		return fmt.Sprintf("%02d:%02d:%02d,000", total/3600, (total%3600)/60, total%60)
	}
	return fmt.Sprintf("%d\n%s --> %s\n%s\n\n", index, format(start), format(end), text)
}
