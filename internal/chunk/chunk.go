// Package chunk splits the vocabulary into fixed-size study units.
package chunk

import "github.com/vytor/senseflash/internal/models"

// DefaultSize is the number of words per chunk.
const DefaultSize = 100

// Partition splits words into consecutive chunks of size words. Order is
// preserved and the last chunk may be shorter. A non-positive size uses
// DefaultSize.
func Partition(words []models.Word, size int) [][]models.Word {
	if size <= 0 {
		size = DefaultSize
	}
	chunks := make([][]models.Word, 0, Count(len(words), size))
	for start := 0; start < len(words); start += size {
		end := min(start+size, len(words))
		chunks = append(chunks, words[start:end])
	}
	return chunks
}

// Count is the number of chunks n words occupy.
func Count(n, size int) int {
	if size <= 0 {
		size = DefaultSize
	}
	return (n + size - 1) / size
}

// At returns chunk i, or nil when out of range.
func At(words []models.Word, size, i int) []models.Word {
	chunks := Partition(words, size)
	if i < 0 || i >= len(chunks) {
		return nil
	}
	return chunks[i]
}

// StatusesForChunk returns the statuses whose word belongs to chunkWords.
func StatusesForChunk(statuses []models.SenseStatus, chunkWords []models.Word) []models.SenseStatus {
	ids := make(map[int64]struct{}, len(chunkWords))
	for _, w := range chunkWords {
		ids[w.WordID] = struct{}{}
	}
	var out []models.SenseStatus
	for _, s := range statuses {
		if _, ok := ids[s.WordID]; ok {
			out = append(out, s)
		}
	}
	return out
}

// IndexOf maps each word id to the chunk it falls in.
func IndexOf(words []models.Word, size int) map[int64]int {
	if size <= 0 {
		size = DefaultSize
	}
	out := make(map[int64]int, len(words))
	for i, w := range words {
		out[w.WordID] = i / size
	}
	return out
}
