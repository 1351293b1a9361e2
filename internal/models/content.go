package models

// Byteable is implemented by every record kind that can be written into an
// allocation.
type Byteable interface {
	AsBytes() []byte
}
