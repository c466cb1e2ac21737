package core

// TextExtractor turns document bytes into plain text.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}
