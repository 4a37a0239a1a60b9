// Package main is a development utility for generating a random value for
// ENCRYPTION_SECRET (or HASHING_SECRET). The encryption key is derived from
// this secret and stays fixed for the life of the deployment: changing it
// makes every stored API key undecryptable, so generate once, store in your
// secret manager, and never rotate it casually.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
)

func main() {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		log.Fatal(err)
	}
	secret := hex.EncodeToString(randomBytes)

	fmt.Println("==========================================================")
	fmt.Println("Encryption Secret Generated")
	fmt.Println("==========================================================")
	fmt.Printf("\nENCRYPTION_SECRET=%s\n", secret)
	fmt.Println("\nStore this in your secret manager before first boot.")
	fmt.Println("Changing it later makes stored API keys undecryptable.")
	fmt.Println("==========================================================")
}
