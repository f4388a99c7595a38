package main

import (
	"fmt"
	"os"

	"github.com/DibasDebnath/SimpleNotesBackend/internal/notes"
)

// Prints a fresh 256-bit key as 64 hex characters, suitable for
// NOTES_SECRET_KEY or a per-user key.
func main() {
	key, err := notes.GenerateKey()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(key)
}
