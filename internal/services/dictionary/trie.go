package dictionary

import (
	"sort"

	"github.com/mcoot/wordmaster/internal/dependencies/random"
)

// Node is a trie node. It is terminal iff it stores the word spelled by its path.
type Node struct {
	children map[rune]*Node
	word     string
	terminal bool
}

func newNode() *Node {
	return &Node{children: make(map[rune]*Node)}
}

// Child follows one character, returning nil if there is no such edge
func (n *Node) Child(r rune) *Node {
	if n == nil {
		return nil
	}
	return n.children[r]
}

// IsTerminal reports whether a complete entry ends at n
func (n *Node) IsTerminal() bool {
	return n != nil && n.terminal
}

// Word returns the entry stored at a terminal node
func (n *Node) Word() string {
	if n == nil {
		return ""
	}
	return n.word
}

// Keys returns the outgoing characters of n in ascending order
func (n *Node) Keys() []rune {
	if n == nil {
		return nil
	}
	keys := make([]rune, 0, len(n.children))
	for r := range n.children {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Trie is a prefix tree over runes
type Trie struct {
	root  *Node
	count int
}

// NewTrie creates an empty trie
func NewTrie() *Trie {
	return &Trie{root: newNode()}
}

// Root returns the root node
func (t *Trie) Root() *Node {
	return t.root
}

// Len returns the number of distinct terminal entries
func (t *Trie) Len() int {
	return t.count
}

// Insert adds word as a root-anchored path
func (t *Trie) Insert(word string) {
	if word == "" {
		return
	}
	node := t.root
	for _, r := range word {
		next, ok := node.children[r]
		if !ok {
			next = newNode()
			node.children[r] = next
		}
		node = next
	}
	if !node.terminal {
		node.terminal = true
		node.word = word
		t.count++
	}
}

// InsertReversedSuffixes inserts every suffix of the reversal of word.
// A trie built this way holds every reversed prefix of every word, so a walk
// from its root reads a word backward from any of its letters.
func (t *Trie) InsertReversedSuffixes(word string) {
	rs := []rune(word)
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	for i := range rs {
		t.Insert(string(rs[i:]))
	}
}

// Follow walks text from the root, returning nil if the path does not exist
func (t *Trie) Follow(text string) *Node {
	node := t.root
	for _, r := range text {
		node = node.Child(r)
		if node == nil {
			return nil
		}
	}
	return node
}

// Contains reports whether text is a terminal entry
func (t *Trie) Contains(text string) bool {
	return t.Follow(text).IsTerminal()
}

// RandomWord picks a uniformly random entry of exactly n letters.
// It returns false when no entry has that length.
func (t *Trie) RandomWord(n int, rnd random.Random) (string, bool) {
	var words []string
	var walk func(node *Node, depth int)
	walk = func(node *Node, depth int) {
		if depth == n {
			if node.terminal {
				words = append(words, node.word)
			}
			return
		}
		for _, r := range node.Keys() {
			walk(node.children[r], depth+1)
		}
	}
	if n > 0 {
		walk(t.root, 0)
	}
	if len(words) == 0 {
		return "", false
	}
	return words[rnd.Intn(len(words))], true
}
