package models

// AppState identifies the last committed block.
type AppState struct {
	Height  int64
	AppHash []byte
}
