package archive

import (
	"fmt"
	"io"
	"os"

	"github.com/yeka/zip"
)

// Encryption selects the cipher applied to every member of a built
// archive.
type Encryption int

const (
	EncryptNone Encryption = iota
	EncryptZipCrypto
	EncryptAES128
	EncryptAES192
	EncryptAES256
)

func (e Encryption) String() string {
	switch e {
	case EncryptNone:
		return "none"
	case EncryptZipCrypto:
		return "zipcrypto"
	case EncryptAES128:
		return "aes128"
	case EncryptAES192:
		return "aes192"
	case EncryptAES256:
		return "aes256"
	}
	return "unknown"
}

// ParseEncryption maps a cipher name from the command line to its
// Encryption value.
func ParseEncryption(name string) (Encryption, error) {
	for _, e := range []Encryption{EncryptNone, EncryptZipCrypto, EncryptAES128, EncryptAES192, EncryptAES256} {
		if e.String() == name {
			return e, nil
		}
	}
	return EncryptNone, fmt.Errorf("unknown encryption method %q", name)
}

func (e Encryption) method() zip.EncryptionMethod {
	switch e {
	case EncryptAES128:
		return zip.AES128Encryption
	case EncryptAES192:
		return zip.AES192Encryption
	case EncryptAES256:
		return zip.AES256Encryption
	default:
		return zip.StandardEncryption
	}
}

// Member is one file to place into a built archive.
type Member struct {
	Name string
	Body []byte
}

// Create writes a fresh archive at path holding the given members, each
// encrypted with password under enc. EncryptNone stores the members in
// the clear and ignores password.
func Create(path, password string, enc Encryption, members []Member) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	w := zip.NewWriter(out)
	for _, m := range members {
		var entry io.Writer
		if enc == EncryptNone {
			entry, err = w.Create(m.Name)
		} else {
			entry, err = w.Encrypt(m.Name, password, enc.method())
		}
		if err != nil {
			w.Close()
			out.Close()
			return fmt.Errorf("add %s: %w", m.Name, err)
		}
		if _, err := entry.Write(m.Body); err != nil {
			w.Close()
			out.Close()
			return fmt.Errorf("write %s: %w", m.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
