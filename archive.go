package txfs

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

// archiveFileMode is owner read/write, group and others read
const archiveFileMode os.FileMode = 0644

// SaveToZip writes every logical file into a new zip archive at target. An
// existing archive is overwritten. Member names are the relative paths.
func (t *TransactionalFileSystem) SaveToZip(target string) error {
	f, err := t.fs.Create(target)
	if err != nil {
		return fmt.Errorf("%w: failed to create the zip file %s: %w", ErrIO, target, err)
	}

	zw := zip.NewWriter(f)
	if err := t.writeArchive(zw); err != nil {
		return errors.Join(err, zw.Close(), f.Close())
	}
	if err := zw.Close(); err != nil {
		return errors.Join(fmt.Errorf("%w: failed to finish the zip file %s: %w", ErrIO, target, err), f.Close())
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: failed to close the zip file %s: %w", ErrIO, target, err)
	}

	t.logger.Debug("saved filesystem to zip file", zap.String("target", target), zap.Int("files", len(t.files)))
	return nil
}

func (t *TransactionalFileSystem) writeArchive(zw *zip.Writer) error {
	modified := time.Now()
	for _, p := range t.Paths() {
		data, err := t.ReadBinary(p)
		if err != nil {
			return err
		}

		header := &zip.FileHeader{
			Name:     p,
			Method:   t.compression,
			Modified: modified,
		}
		header.SetMode(archiveFileMode)
		w, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("%w: failed to add %s to the zip file: %w", ErrIO, p, err)
		}
		n, err := w.Write(data)
		if err != nil {
			return fmt.Errorf("%w: failed to write %s: %w", ErrIO, p, err)
		}
		if n != len(data) {
			return fmt.Errorf("%w: failed to write %s: wrote %d of %d bytes", ErrIO, p, n, len(data))
		}
	}
	return nil
}
