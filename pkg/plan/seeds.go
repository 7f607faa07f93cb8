package plan

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/portforge/archplan/pkg/errors"
)

// SeedLine is one line of the input list: either a package specifier or a
// pass-through comment/blank line preserved for report layout.
type SeedLine struct {
	Text        string
	Passthrough bool
}

// ReadSeedFile reads a seed list from path.
func ReadSeedFile(path string) ([]SeedLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open seed list %s", path)
	}
	defer f.Close()
	return ReadSeeds(f)
}

// ReadSeeds parses a seed list. A line starting with '#' or consisting only
// of whitespace passes through verbatim. A comment following content on the
// same line is a fatal input error: it would silently change which package
// the line names.
func ReadSeeds(r io.Reader) ([]SeedLine, error) {
	var lines []SeedLine
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			lines = append(lines, SeedLine{Text: line, Passthrough: true})
			continue
		}
		if strings.Contains(line, "#") {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"inline comments are not supported (line %d)", n)
		}
		lines = append(lines, SeedLine{Text: trimmed})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read seed list")
	}
	return lines, nil
}
