package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wsynab/wsynab/internal/model"
)

const (
	// FileName is the name the export is saved under.
	FileName = "Wealthsimple.csv"
	// MIMEType is the content type of the export.
	MIMEType = "text/csv"
)

// FileSaver hands a finished file to the user.
type FileSaver interface {
	Save(name, mimeType string, data []byte) error
}

// Download renders entries and passes them to saver as FileName.
func Download(saver FileSaver, entries []model.YnabEntry) error {
	if err := saver.Save(FileName, MIMEType, []byte(ToCSV(entries))); err != nil {
		return fmt.Errorf("saving %s: %w", FileName, err)
	}
	return nil
}

// DirSaver writes files into Dir, replacing any existing file of the same
// name atomically.
type DirSaver struct {
	Dir string
	// Name overrides the suggested file name when set.
	Name string
}

// Save writes data to Dir. mimeType is ignored on disk.
func (s DirSaver) Save(name, _ string, data []byte) error {
	if s.Name != "" {
		name = s.Name
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return fmt.Errorf("moving %s into place: %w", name, err)
	}
	return nil
}

// Path returns where Save puts a file suggested as name.
func (s DirSaver) Path(name string) string {
	if s.Name != "" {
		name = s.Name
	}
	return filepath.Join(s.Dir, name)
}

// WriterSaver streams the file to W, e.g. stdout.
type WriterSaver struct {
	W io.Writer
}

// Save writes data to W followed by a newline.
func (s WriterSaver) Save(_, _ string, data []byte) error {
	if _, err := s.W.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(s.W, "\n")
	return err
}
