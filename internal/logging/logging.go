package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const FileName = "pathsim.log"

// New builds a text logger at the named level writing to out.
func New(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	lg := logrus.New()
	lg.Out = out
	lg.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	lg.Level = lvl
	return lg, nil
}

// NewFile logs to dir/pathsim.log. The terminal viewer owns stdout, so it logs here.
func NewFile(level, dir string) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	lg, err := New(level, f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	lg.Formatter = &logrus.TextFormatter{FullTimestamp: true, DisableColors: true}
	return lg, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	lg := logrus.New()
	lg.Out = io.Discard
	return lg
}
