//go:build ignore

// This script generates an unguessable webhook path segment.
// Run with: go run scripts/generate_webhook_path.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func main() {
	fmt.Println("=== Giga Bot Webhook Path Generator ===")
	fmt.Println()

	// 24 bytes = 192 bits, URL-safe without padding
	token, err := generateSecureToken(24)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating webhook path: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add this to your environment:")
	fmt.Println()
	fmt.Printf("WEBHOOK_PATH=tg-%s\n", token)
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Anyone who knows the path can post fake updates to the bot")
	fmt.Println("- Use a different path for each deployment")
}
