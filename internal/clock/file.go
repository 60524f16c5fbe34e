package clock

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseFile reads a two-column clock file: an MJD followed by an offset in
// microseconds on each line. Blank lines and lines starting with '#' or "C "
// are skipped, as are extra columns. Offsets are returned in seconds.
func ParseFile(r io.Reader) ([]Point, error) {
	var pts []Point
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "C ") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("clock file line %d: want MJD and offset, got %q", line, text)
		}
		m, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("clock file line %d: bad MJD %q: %w", line, fields[0], err)
		}
		us, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("clock file line %d: bad offset %q: %w", line, fields[1], err)
		}
		pts = append(pts, Point{MJD: m, Offset: us * 1e-6})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("clock file: %w", err)
	}
	return pts, nil
}
