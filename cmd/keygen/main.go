// Command keygen generates a random API key and prints it together with its
// SHA-256 digest. Deployments that prefer not to keep the plaintext key in
// the environment can configure API_KEY with the digest instead; the auth
// middleware accepts either form.
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
)

const keyBytes = 32

func main() {
	raw := make([]byte, keyBytes)
	if _, err := rand.Read(raw); err != nil {
		log.Fatalf("failed to generate random key: %v", err)
	}

	key := base64.RawURLEncoding.EncodeToString(raw)
	digest := sha256.Sum256([]byte(key))

	fmt.Printf("API key:        %s\n", key)
	fmt.Printf("SHA-256 digest: %s\n", hex.EncodeToString(digest[:]))
	fmt.Println()
	fmt.Println("Set API_KEY to either value; clients always send the plaintext key.")
}
