package instructions

import (
	"log"
	"os"
	"strings"
)

// Default is used when no instructions file can be read.
const Default = "You are a helpful assistant."

// Load reads the system instructions from path. A missing, unreadable or
// blank file falls back to Default.
func Load(path string) string {
	if path == "" {
		return Default
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("instructions file not found or unreadable at %s, using default: %v", path, err)
		return Default
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		log.Printf("instructions file %s is empty, using default", path)
		return Default
	}
	return s
}
