package structures

type BytesSet struct {
	set map[string]struct{}
}

func NewBytesSet() *BytesSet {
	return &BytesSet{
		set: make(map[string]struct{}),
	}
}

func (bytesSet *BytesSet) Add(bytes []byte) {
	bytesSet.set[string(bytes)] = struct{}{}
}

func (bytesSet *BytesSet) Contains(bytes []byte) bool {
	_, exists := bytesSet.set[string(bytes)]
	return exists
}
