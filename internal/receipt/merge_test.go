package receipt

import (
	"strings"
	"testing"
)

func bandResults(texts ...string) []BandResult {
	results := make([]BandResult, len(texts))
	for i, text := range texts {
		results[i] = BandResult{
			Band: Band{Index: i},
			Text: text,
		}
	}
	return results
}

func TestMergeEmpty(t *testing.T) {
	if got := MergeResults(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestMergeSingleBandVerbatim(t *testing.T) {
	text := "Store Receipt\n\nItem Jordan 4\n\n$120.00\n"
	got := MergeResults(bandResults(text))
	if got != text {
		t.Fatalf("single band must pass through verbatim:\ngot  %q\nwant %q", got, text)
	}
}

func TestMergeDuplicateTail(t *testing.T) {
	a := "Store Receipt\nItem Jordan 4\nSize 10\nStyle AB1234-100\n$120.00"
	b := "Size 10\nStyle AB1234-100\n$120.00\nTax $9.60\nTotal $129.60"

	got := MergeResults(bandResults(a, b))
	want := strings.Join([]string{
		"Store Receipt",
		"Item Jordan 4",
		"Size 10",
		"Style AB1234-100",
		"$120.00",
		"Tax $9.60",
		"Total $129.60",
	}, "\n")
	if got != want {
		t.Fatalf("duplicated tail must appear once:\ngot  %q\nwant %q", got, want)
	}
}

func TestMergeNoDuplicateKeepsEverything(t *testing.T) {
	a := "Line one of band A\nLine two of band A"
	b := "Line one of band B\nLine two of band B"

	got := MergeResults(bandResults(a, b))
	want := "Line one of band A\nLine two of band A\nLine one of band B\nLine two of band B"
	if got != want {
		t.Fatalf("no-match merge must keep all lines:\ngot  %q\nwant %q", got, want)
	}
}

func TestMergeThreeBands(t *testing.T) {
	a := "Header line\nAlpha item\nBravo item"
	b := "Bravo item\nCharlie item\nDelta item"
	c := "Delta item\nEcho item\nGrand total"

	got := MergeResults(bandResults(a, b, c))
	want := strings.Join([]string{
		"Header line",
		"Alpha item",
		"Bravo item",
		"Charlie item",
		"Delta item",
		"Echo item",
		"Grand total",
	}, "\n")
	if got != want {
		t.Fatalf("three-band merge:\ngot  %q\nwant %q", got, want)
	}
}

func TestMergeSkipsShortLines(t *testing.T) {
	// The trailing "$12" is too short to compare; the cutoff anchors on
	// the longer line before it and drops both.
	a := "Keep this line here\nShared middle line\n$12"
	b := "Shared middle line\n$12\nNext band content"

	got := MergeResults(bandResults(a, b))
	want := "Keep this line here\nShared middle line\n$12\nNext band content"
	if got != want {
		t.Fatalf("short-line handling:\ngot  %q\nwant %q", got, want)
	}
}

func TestMergeLongLinesComparedByPrefix(t *testing.T) {
	long := strings.Repeat("x", 60)
	// Same first 60 characters, different tails: treated as duplicates.
	a := "Unique head line\n" + long + "AAAA"
	b := long + "BBBB\nTrailing line"

	got := MergeResults(bandResults(a, b))
	want := "Unique head line\n" + long + "BBBB\nTrailing line"
	if got != want {
		t.Fatalf("prefix comparison:\ngot  %q\nwant %q", got, want)
	}
}

func TestMergeDropsBlankLinesOnChunkedPath(t *testing.T) {
	a := "First line here\n\nShared boundary line"
	b := "Shared boundary line\n\nLast line here"

	got := MergeResults(bandResults(a, b))
	want := "First line here\nShared boundary line\nLast line here"
	if got != want {
		t.Fatalf("blank-line handling:\ngot  %q\nwant %q", got, want)
	}
}

func TestMergeEmptyMiddleBand(t *testing.T) {
	a := "Band one line A\nBand one line B"
	c := "Band three line A\nBand three line B"

	got := MergeResults(bandResults(a, "", c))
	want := "Band one line A\nBand one line B\nBand three line A\nBand three line B"
	if got != want {
		t.Fatalf("empty middle band:\ngot  %q\nwant %q", got, want)
	}
}
