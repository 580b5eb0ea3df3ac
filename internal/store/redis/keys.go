package redis

import "fmt"

const (
	// KeyPrefix namespaces every key written by marks.
	KeyPrefix = "marks:"
	// KeyPrefixTitle is the prefix for cached page titles
	KeyPrefixTitle = KeyPrefix + "title:"
)

// SlotKey returns the Redis key holding the bookmark list for a slot name.
func SlotKey(name string) string {
	return KeyPrefix + name
}

// TitleKey returns the Redis key for a cached page title
func TitleKey(pageURL string) string {
	return KeyPrefixTitle + pageURL
}

// ExtractSlotName extracts the slot name from a Redis key
func ExtractSlotName(key string) (string, error) {
	if len(key) <= len(KeyPrefix) || key[:len(KeyPrefix)] != KeyPrefix {
		return "", fmt.Errorf("invalid slot key: %s", key)
	}
	return key[len(KeyPrefix):], nil
}
