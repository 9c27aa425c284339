package inject

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Backup snapshot encodings.
const (
	EncodingTarZstd = "tar+zstd"
	EncodingTarXz   = "tar+xz"
)

// ArchiveBackups packs the contents of backupDir into a timestamped
// compressed tarball next to it and returns the archive path. The backup
// directory itself is left untouched.
func ArchiveBackups(backupDir, encoding string, now time.Time) (string, error) {
	info, err := os.Stat(backupDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("backup dir not found: %s", backupDir)
	}

	var ext string
	switch encoding {
	case EncodingTarZstd:
		ext = ".tar.zst"
	case EncodingTarXz:
		ext = ".tar.xz"
	default:
		return "", fmt.Errorf("unsupported archive encoding %q", encoding)
	}

	archivePath := backupDir + "-" + now.Format("20060102150405") + ext
	f, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	compressor, err := newCompressor(f, encoding)
	if err != nil {
		os.Remove(archivePath)
		return "", err
	}

	tw := tar.NewWriter(compressor)
	walkErr := filepath.WalkDir(backupDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(backupDir, path)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		header := &tar.Header{
			Name:    filepath.ToSlash(rel),
			Mode:    int64(fi.Mode().Perm()),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if walkErr != nil {
		tw.Close()
		compressor.Close()
		os.Remove(archivePath)
		return "", walkErr
	}
	if err := tw.Close(); err != nil {
		compressor.Close()
		os.Remove(archivePath)
		return "", err
	}
	if err := compressor.Close(); err != nil {
		os.Remove(archivePath)
		return "", err
	}
	return archivePath, nil
}

func newCompressor(w io.Writer, encoding string) (io.WriteCloser, error) {
	switch encoding {
	case EncodingTarZstd:
		return zstd.NewWriter(w)
	case EncodingTarXz:
		return xz.NewWriter(w)
	default:
		return nil, fmt.Errorf("unsupported archive encoding %q", encoding)
	}
}
