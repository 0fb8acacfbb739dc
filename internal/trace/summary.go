package trace

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Summary aggregates the records of a run.
type Summary struct {
	Frames         int
	PeakBytes      int64
	PeakTextures   int
	MeanBytes      float64
	StaticRenders  int
	DynamicRenders int
	Failed         int
	Resizes        int            // frames where a light's static size changed
	SizeHistogram  map[int]int    // static size -> light frames
	lastStatic     map[string]int // static size per light in the previous record
	totalBytes     int64
}

// Add accumulates one record.
func (s *Summary) Add(rec Record) {
	if s.SizeHistogram == nil {
		s.SizeHistogram = make(map[int]int)
		s.lastStatic = make(map[string]int)
	}

	s.Frames++
	s.totalBytes += rec.Bytes
	s.MeanBytes = float64(s.totalBytes) / float64(s.Frames)
	s.PeakBytes = max(s.PeakBytes, rec.Bytes)
	s.PeakTextures = max(s.PeakTextures, rec.LiveTextures)
	s.StaticRenders += rec.StaticRenders
	s.DynamicRenders += rec.DynamicRenders
	s.Failed += rec.Failed

	for _, l := range rec.Lights {
		if l.Static == 0 {
			continue
		}
		s.SizeHistogram[l.Static]++
		if prev, ok := s.lastStatic[l.Name]; ok && prev != l.Static {
			s.Resizes++
		}
		s.lastStatic[l.Name] = l.Static
	}
}

// Summarize reads every remaining record of r.
func Summarize(r *Reader) (Summary, error) {
	var s Summary
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return s, nil
		}
		if err != nil {
			return s, err
		}
		s.Add(rec)
	}
}

// String formats the summary for the terminal.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "frames:          %d\n", s.Frames)
	fmt.Fprintf(&b, "peak memory:     %s\n", FormatBytes(s.PeakBytes))
	fmt.Fprintf(&b, "mean memory:     %s\n", FormatBytes(int64(s.MeanBytes)))
	fmt.Fprintf(&b, "peak textures:   %d\n", s.PeakTextures)
	fmt.Fprintf(&b, "static renders:  %d\n", s.StaticRenders)
	fmt.Fprintf(&b, "dynamic renders: %d\n", s.DynamicRenders)
	fmt.Fprintf(&b, "static resizes:  %d\n", s.Resizes)
	if s.Failed > 0 {
		fmt.Fprintf(&b, "failed plans:    %d\n", s.Failed)
	}

	sizes := make([]int, 0, len(s.SizeHistogram))
	for size := range s.SizeHistogram {
		sizes = append(sizes, size)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	for _, size := range sizes {
		fmt.Fprintf(&b, "  %5d: %d\n", size, s.SizeHistogram[size])
	}
	return b.String()
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
