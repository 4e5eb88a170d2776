// Package archive wraps the encrypted zip the door password is buried
// in. The search engine only ever touches this surface: list entries,
// try one password against one entry, extract everything with the
// recovered password. Zip parsing itself is the yeka/zip library's
// problem, not ours.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/yeka/zip"
)

var ErrNoEntries = errors.New("archive contains no files")

// Entry identifies one regular file inside the archive.
type Entry struct {
	Name string
	Size uint64
}

// Vault is one open handle on the archive. It is not safe for
// concurrent use: verifying mutates per-entry password state inside the
// zip reader, so every worker opens its own Vault.
type Vault struct {
	path    string
	rc      *zip.ReadCloser
	entries []Entry
	byName  map[string]*zip.File
}

// Open opens the archive at path read-only.
func Open(path string) (*Vault, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	v := &Vault{
		path:   path,
		rc:     rc,
		byName: make(map[string]*zip.File, len(rc.File)),
	}
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		v.entries = append(v.entries, Entry{Name: f.Name, Size: f.UncompressedSize64})
		v.byName[f.Name] = f
	}
	return v, nil
}

func (v *Vault) Close() error {
	return v.rc.Close()
}

func (v *Vault) Path() string {
	return v.path
}

// Entries lists the archive's regular files in archive order.
func (v *Vault) Entries() []Entry {
	return v.entries
}

// SmallestEntry returns the cheapest entry to verify against: the one
// with the smallest uncompressed size. ErrNoEntries if the archive holds
// no regular files.
func (v *Vault) SmallestEntry() (Entry, error) {
	if len(v.entries) == 0 {
		return Entry{}, ErrNoEntries
	}
	return lo.MinBy(v.entries, func(a, b Entry) bool {
		return a.Size < b.Size
	}), nil
}

// VerifyEntry tries password against the named entry and classifies the
// result. The entry is read to the end: the legacy zip cipher's check
// byte lets roughly 1 in 256 wrong passwords through, and only a full
// decompress-and-checksum settles it.
func (v *Vault) VerifyEntry(name, password string) Verdict {
	f, ok := v.byName[name]
	if !ok {
		return Verdict{Code: Transient, Detail: fmt.Sprintf("entry %q disappeared from archive", name)}
	}
	if f.IsEncrypted() {
		f.SetPassword(password)
	}
	rc, err := f.Open()
	if err != nil {
		return classify(err)
	}
	_, err = io.Copy(io.Discard, rc)
	if cerr := rc.Close(); err == nil {
		err = cerr
	}
	return classify(err)
}

// ExtractAll writes every entry into destDir using password for the
// encrypted ones.
func (v *Vault) ExtractAll(password, destDir string) error {
	dest, err := filepath.Abs(destDir)
	if err != nil {
		return err
	}
	for _, f := range v.rc.File {
		fpath := filepath.Join(dest, f.Name)

		// Check for ZipSlip vulnerability
		if !strings.HasPrefix(fpath, dest+string(os.PathSeparator)) {
			return fmt.Errorf("illegal file path: %s", fpath)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, os.ModePerm); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return err
		}

		if f.IsEncrypted() {
			f.SetPassword(password)
		}
		outFile, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			outFile.Close()
			return err
		}
		_, err = io.Copy(outFile, rc)

		// Close without defer so handles do not pile up across entries.
		outFile.Close()
		rc.Close()

		if err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}
