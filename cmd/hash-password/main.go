// Command hash-password prints bcrypt hashes for seeding accounts directly in
// the database, e.g. the first ADMIN user of a fresh deployment.
//
// Passwords are read one per line from stdin:
//
//	echo 'correct horse battery' | hash-password -cost 12
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/lingua-labs/lingua-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", auth.DefaultBcryptCost, "bcrypt cost factor")
	flag.Parse()

	if err := hashLines(os.Stdin, os.Stdout, auth.NewBcryptHasher(*cost)); err != nil {
		log.Fatalf("hash-password: %v", err)
	}
}

// hashLines writes one hash per non-blank input line.
func hashLines(in io.Reader, out io.Writer, hasher auth.PasswordHasher) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		password := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(password) == "" {
			continue
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, hash); err != nil {
			return err
		}
	}
	return scanner.Err()
}
