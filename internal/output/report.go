package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/etfpension/internal/domain"
)

// ErrUnsupportedFormat is returned for a format name no formatter handles.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// GenerateReport writes the comparison in the given format to a timestamped
// file and returns its name. A bundle name ("all") writes each of its
// reports and returns the names comma-joined.
func GenerateReport(results *domain.Comparison, format string) (string, error) {
	names, ok := bundles[NormalizeFormatName(format)]
	if !ok {
		names = []string{format}
	}
	var written []string
	for _, name := range names {
		r, err := lookup(name)
		if err != nil {
			return strings.Join(written, ","), err
		}
		file, err := WriteFormatted(r.formatter, results, r.ext)
		if err != nil {
			return strings.Join(written, ","), err
		}
		written = append(written, file)
	}
	return strings.Join(written, ","), nil
}

// Render writes the comparison in the given format to w.
func Render(w io.Writer, results *domain.Comparison, format string) error {
	r, err := lookup(format)
	if err != nil {
		return err
	}
	data, err := r.formatter.Format(results)
	if err != nil {
		return fmt.Errorf("format %s: %w", r.formatter.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

func lookup(format string) (registration, error) {
	if r, ok := resolve(format); ok {
		return r, nil
	}
	return registration{}, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}
