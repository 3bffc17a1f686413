package exercise

import (
	"regexp"
	"strconv"
	"strings"
)

var markerPattern = regexp.MustCompile(`\[(\d+)\]`)

// SegmentKind distinguishes literal text from a blank reference.
type SegmentKind string

const (
	SegmentText  SegmentKind = "text"
	SegmentBlank SegmentKind = "blank"
)

// Segment is one piece of a marker-bearing line.
// For blanks, Index is the zero-based position in the answer list.
type Segment struct {
	Kind    SegmentKind `json:"kind"`
	Content string      `json:"content,omitempty"`
	Index   int         `json:"index"`
}

// ParseMarkers splits text on [k] markers. Marker [k] refers to blank k-1.
// Markers that cannot refer to any blank ([0]) stay literal text.
func ParseMarkers(text string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range markerPattern.FindAllStringSubmatchIndex(text, -1) {
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil || n < 1 {
			continue
		}
		if loc[0] > last {
			segments = append(segments, Segment{Kind: SegmentText, Content: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Kind: SegmentBlank, Index: n - 1})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Kind: SegmentText, Content: text[last:]})
	}
	return segments
}

// MarkerIndexes returns the zero-based blank indexes referenced by text,
// in order of appearance.
func MarkerIndexes(text string) []int {
	var out []int
	for _, seg := range ParseMarkers(text) {
		if seg.Kind == SegmentBlank {
			out = append(out, seg.Index)
		}
	}
	return out
}

// Paragraphs splits a dialogue into blocks separated by blank lines, each
// block split into lines.
func Paragraphs(text string) [][]string {
	blocks := strings.Split(text, "\n\n")
	out := make([][]string, 0, len(blocks))
	for _, block := range blocks {
		out = append(out, strings.Split(block, "\n"))
	}
	return out
}
