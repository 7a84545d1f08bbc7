// hash-passphrase imprime el hash bcrypt de la frase de acceso para AUTH_PASSPHRASE_HASH.
//
// Uso: go run ./cmd/hash-passphrase <frase>
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) != 2 || os.Args[1] == "" {
		fmt.Fprintln(os.Stderr, "Uso: hash-passphrase <frase>")
		os.Exit(2)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("AUTH_PASSPHRASE_HASH=%s\n", hash)
}
