// Package facts loads the static store-facts document.
package facts

import (
	"encoding/json"
	"log"
	"os"

	"github.com/fernlabs/storechat/domain"
)

// Load reads the store facts JSON document at path. The document is loaded
// once at process start and read-only afterward. A missing or unreadable
// document is not fatal: the assistant runs with empty facts.
func Load(path string) domain.StoreFacts {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("WARN: store facts document %s not found, using empty facts", path)
		} else {
			log.Printf("WARN: failed to read store facts document %s: %v", path, err)
		}
		return domain.StoreFacts{}
	}

	var f domain.StoreFacts
	if err := json.Unmarshal(data, &f); err != nil {
		log.Printf("WARN: invalid store facts document %s: %v", path, err)
		return domain.StoreFacts{}
	}
	return f
}
