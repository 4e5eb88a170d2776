package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"lukechampine.com/frand"

	"github.com/sowon-dev/doorhack/archive"
	"github.com/sowon-dev/doorhack/keyspace"
)

// Builds password-protected test archives. Any file paths given as
// positional arguments become the archive members; without them a small
// canned manifest is written.
func main() {
	out := flag.String("out", "emergency_storage_key.zip", "path of the archive to write")
	password := flag.String("password", "", "password to encrypt the members with")
	random := flag.Bool("random", false, "pick a random password from the default search space")
	method := flag.String("method", "zipcrypto", "none, zipcrypto, aes128, aes192 or aes256")
	flag.Parse()

	enc, err := archive.ParseEncryption(*method)
	if err != nil {
		panic(err)
	}

	pwd := *password
	if *random {
		space := keyspace.Default()
		b := make([]byte, space.Length)
		for i := range b {
			b[i] = space.Alphabet[frand.Intn(len(space.Alphabet))]
		}
		pwd = string(b)
	}
	if pwd == "" && enc != archive.EncryptNone {
		panic("need -password or -random to encrypt")
	}

	members := []archive.Member{
		{Name: "unlock_code.txt", Body: []byte("the door code is taped under the console\n")},
		{Name: "manifest/storage_bay.txt", Body: []byte("emergency storage bay manifest\n")},
	}
	if files := flag.Args(); len(files) > 0 {
		members = members[:0]
		for _, path := range files {
			body, err := os.ReadFile(path)
			if err != nil {
				panic(err)
			}
			members = append(members, archive.Member{Name: filepath.Base(path), Body: body})
		}
	}

	if err := archive.Create(*out, pwd, enc, members); err != nil {
		panic(err)
	}
	fmt.Printf("wrote %s (%d members, %s)\n", *out, len(members), enc)
	if *random {
		fmt.Println("password:", pwd)
	}
}
