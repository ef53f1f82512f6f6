package migrate

import (
	"fmt"
	"os"
	"strings"
)

const (
	upMarker        = "-- +goose Up"
	downMarker      = "-- +goose Down"
	stmtBeginMarker = "-- +goose StatementBegin"
	stmtEndMarker   = "-- +goose StatementEnd"
)

// ValidateDir checks every migration in dir: filename shape, unique version,
// an Up section ahead of a Down section, and balanced statement blocks.
func ValidateDir(dir string) error {
	files, err := scanDir(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		raw, err := os.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("read file %q: %w", f.Path, err)
		}
		if err := validateBody(string(raw)); err != nil {
			return fmt.Errorf("migration %d_%s: %w", f.Version, f.Name, err)
		}
	}
	return nil
}

func validateBody(txt string) error {
	up := strings.Index(txt, upMarker)
	down := strings.Index(txt, downMarker)
	switch {
	case up < 0:
		return fmt.Errorf("missing %q", upMarker)
	case down < 0:
		return fmt.Errorf("missing %q", downMarker)
	case down < up:
		return fmt.Errorf("%q precedes %q", downMarker, upMarker)
	}

	depth := 0
	for _, line := range strings.Split(txt, "\n") {
		switch strings.TrimSpace(line) {
		case stmtBeginMarker:
			depth++
			if depth > 1 {
				return fmt.Errorf("nested %q", stmtBeginMarker)
			}
		case stmtEndMarker:
			depth--
			if depth < 0 {
				return fmt.Errorf("%q without begin", stmtEndMarker)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unterminated %q", stmtBeginMarker)
	}
	return nil
}
