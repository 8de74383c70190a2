package sink

import "github.com/matzehuels/sprout/pkg/lsystem"

// RenderText returns the canonical notation of s followed by a newline.
func RenderText(s lsystem.Sentence) []byte {
	return []byte(s.String() + "\n")
}
