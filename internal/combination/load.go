package combination

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hpungsan/combo/internal/errors"
	"github.com/hpungsan/combo/internal/logging"
)

// Format describes the line layout of a data file.
type Format struct {
	Delimiter string
	Comment   string

	// Fields is 6 when a trailing URL column is present, 5 otherwise
	Fields int
}

// DefaultFormat is description;distance;defense;faint;body;url.
var DefaultFormat = Format{Delimiter: ";", Comment: "#", Fields: 6}

// ShortFormat is the layout without the URL column.
var ShortFormat = Format{Delimiter: ";", Comment: "#", Fields: 5}

// FormatFor returns the format with the given field count (5 or 6).
func FormatFor(fields int) (Format, error) {
	switch fields {
	case 0, DefaultFormat.Fields:
		return DefaultFormat, nil
	case ShortFormat.Fields:
		return ShortFormat, nil
	}
	return Format{}, fmt.Errorf("record_fields must be 5 or 6, got %d", fields)
}

// Load reads path with DefaultFormat.
func Load(path string) ([]Combination, error) {
	return DefaultFormat.Load(path)
}

// Load reads every record in the file at path. The first malformed line
// aborts the whole load; I/O failures come back as IO_ERROR.
func (f Format) Load(path string) ([]Combination, error) {
	log := logging.New("loader")
	if cwd, err := os.Getwd(); err == nil {
		log.Debug("loading combinations", "cwd", cwd, "path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO(path, err)
	}
	defer file.Close()

	records, err := f.read(file, path)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded combinations", "path", path, "count", len(records))
	return records, nil
}

// Read parses records from r.
func (f Format) Read(r io.Reader) ([]Combination, error) {
	return f.read(r, "")
}

func (f Format) read(r io.Reader, path string) ([]Combination, error) {
	records := []Combination{}
	// Lines have no length limit.
	br := bufio.NewReader(r)
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, errors.NewIO(path, readErr)
		}
		line := strings.TrimSpace(raw)
		if line != "" && !strings.HasPrefix(line, f.Comment) {
			c, err := f.Parse(line)
			if err != nil {
				return nil, err
			}
			records = append(records, c)
		}
		if readErr == io.EOF {
			return records, nil
		}
	}
}

// Parse converts one data line into a Combination.
func (f Format) Parse(line string) (Combination, error) {
	el := strings.Split(line, f.Delimiter)
	if len(el) != f.Fields {
		return Combination{}, errors.NewParse(fmt.Sprintf(
			"Expect %d elements delimited by %s in %q", f.Fields, f.Delimiter, line), line)
	}

	distance, ok := ParseDistance(el[1])
	if !ok {
		return Combination{}, errors.NewParse(fmt.Sprintf(
			"Unknown distance %q in %q", strings.TrimSpace(el[1]), line), line)
	}

	// yes/no errors echo the field as written, leading whitespace included
	facets := [3]YesNo{}
	for i, name := range []string{"defense", "faint", "body"} {
		v, ok := ParseYesNo(el[2+i])
		if !ok {
			return Combination{}, errors.NewParse(fmt.Sprintf(
				"Unknown %s %q in %q", name, el[2+i], line), line)
		}
		facets[i] = v
	}

	c := Combination{
		Description: strings.TrimSpace(el[0]),
		Distance:    distance,
		Defense:     facets[0],
		Faint:       facets[1],
		Body:        facets[2],
	}
	if f.Fields > 5 {
		if url := strings.TrimSpace(el[5]); url != "" {
			c.URL = &url
		}
	}
	return c, nil
}
