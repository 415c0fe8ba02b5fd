package redis

import "fmt"

// Key prefix for all wordmaster data
const keyPrefix = "wordmaster"

// gameKey returns the Redis key for a saved game
func gameKey(name string) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, name)
}

// gamesIndexKey returns the Redis key for the SET of saved game names
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// dictionaryKey returns the Redis key for a language's word set
func dictionaryKey(language string) string {
	return fmt.Sprintf("%s:dictionary:%s", keyPrefix, language)
}
