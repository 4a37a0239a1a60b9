// Package main is a utility for generating password hashes in the encoding
// the identity document stores. The store never holds a plaintext password —
// only the salt:hash scrypt encoding — so this tool is used when manually
// seeding or repairing a user record without running the bootstrap flow.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/askbase/identity-store/internal/crypto"
)

func main() {
	var password string
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
