package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/spf13/pflag"
)

// strategyFlag accepts only known allocation strategies at parse time.
type strategyFlag struct {
	value domain.Strategy
}

var _ pflag.Value = (*strategyFlag)(nil)

func (f *strategyFlag) String() string { return string(f.value) }

func (f *strategyFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidStrategies[s] {
		return fmt.Errorf("must be one of rejection, flow")
	}
	f.value = domain.Strategy(s)
	return nil
}

func (f *strategyFlag) Type() string { return "strategy" }

// readRoster loads roster text from path, or from stdin when path is "-".
// The returned name is the file's base name without extension.
func readRoster(path string, stdin io.Reader) (text, name string, err error) {
	if path == "" {
		return "", "", fmt.Errorf("--roster is required")
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading roster from stdin: %w", err)
		}
		return string(data), "stdin", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading roster: %w", err)
	}
	base := filepath.Base(path)
	return string(data), strings.TrimSuffix(base, filepath.Ext(base)), nil
}

// writeOutput runs write against the file at path, or against stdout when
// path is empty. A failed write leaves no file behind.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		if err := write(stdout); err != nil {
			return err
		}
		_, err := io.WriteString(stdout, "\n")
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
