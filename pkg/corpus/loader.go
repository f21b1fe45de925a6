package corpus

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/synonymy/internal/utils"
	"github.com/charmbracelet/log"
)

// ErrNoCorpus is returned when the corpus path holds no usable files.
var ErrNoCorpus = errors.New("no corpus files found")

// Loader reads a corpus from a directory of dict_NNNN.bin chunks or from a
// plain text word list.
//
// Chunk layout (little endian):
//
//	int32 count
//	count x (uint16 len, len bytes word, uint32 rank)
type Loader struct {
	path     string
	maxWords int
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ID        int
	Filename  string
	WordCount int
}

// NewLoader creates a loader. maxWords <= 0 loads everything.
func NewLoader(path string, maxWords int) *Loader {
	return &Loader{path: path, maxWords: maxWords}
}

// GetAvailableChunks scans the directory for chunk files, sorted by ID.
func (l *Loader) GetAvailableChunks() ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(l.path, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			log.Debugf("Skipping chunk with bad name: %s", file)
			continue
		}
		wordCount, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			continue
		}
		chunks = append(chunks, ChunkInfo{ID: chunkID, Filename: file, WordCount: wordCount})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})
	return chunks, nil
}

func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// Load reads the corpus synchronously. The result is complete before any
// rank lookup happens, so scores never depend on loading progress.
func (l *Loader) Load() (*Corpus, error) {
	stat, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("corpus path %s: %w", l.path, err)
	}

	c := New()
	if !stat.IsDir() {
		format, err := DetectFileFormat(l.path)
		if err != nil {
			return nil, err
		}
		if format != FormatText {
			return nil, fmt.Errorf("%s: expected a .txt word list or a chunk directory", l.path)
		}
		if err := l.loadText(c, l.path); err != nil {
			return nil, err
		}
		log.Debugf("Loaded %d words from %s", c.Len(), l.path)
		return c, nil
	}

	chunks, err := l.GetAvailableChunks()
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCorpus, l.path)
	}
	log.Debugf("Found %d chunk files", len(chunks))

	for _, chunk := range chunks {
		if l.full(c) {
			break
		}
		if err := ValidateFileFormat(chunk.Filename, FormatChunk); err != nil {
			return nil, err
		}
		if err := l.loadChunk(c, chunk); err != nil {
			return nil, fmt.Errorf("load chunk %d: %w", chunk.ID, err)
		}
	}

	log.Debugf("Corpus loaded: %d words from %d chunks", c.Len(), len(chunks))
	return c, nil
}

func (l *Loader) full(c *Corpus) bool {
	return l.maxWords > 0 && c.Len() >= l.maxWords
}

func (l *Loader) loadChunk(c *Corpus, chunk ChunkInfo) error {
	file, err := os.Open(chunk.Filename)
	if err != nil {
		return fmt.Errorf("failed to open chunk file %s: %w", chunk.Filename, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return fmt.Errorf("failed to read chunk header: %w", err)
	}

	for count := 0; count < int(totalEntries) && !l.full(c); count++ {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint32
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return fmt.Errorf("failed to read rank: %w", err)
		}

		c.Add(string(wordBytes), int(rank))
	}

	log.Debugf("Chunk %d loaded", chunk.ID)
	return nil
}

func (l *Loader) loadText(c *Corpus, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open word list %s: %w", filename, err)
	}
	defer file.Close()

	words, err := ReadWordList(file)
	if err != nil {
		return fmt.Errorf("read word list %s: %w", filename, err)
	}
	for i, w := range words {
		if l.full(c) {
			break
		}
		c.Add(w, i+1)
	}
	return nil
}

// ReadWordList reads one word per line, most frequent first. Blank lines and
// lines starting with '#' are skipped. Extra columns (e.g. "the 23135851162")
// are ignored.
func ReadWordList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(strings.Fields(line)[0]))
	}
	return words, scanner.Err()
}

// WriteChunks writes words (most frequent first) to dir as dict_NNNN.bin
// chunks of chunkSize words. It returns the number of chunks written.
func WriteChunks(dir string, words []string, chunkSize int) (int, error) {
	if chunkSize < 1 {
		return 0, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if err := utils.EnsureDir(dir); err != nil {
		return 0, fmt.Errorf("create corpus dir: %w", err)
	}

	ranks := utils.CreateRankList(len(words))
	chunks := 0
	for start := 0; start < len(words); start += chunkSize {
		end := min(start+chunkSize, len(words))
		chunks++
		filename := filepath.Join(dir, fmt.Sprintf("dict_%04d.bin", chunks))
		if err := writeChunk(filename, words[start:end], ranks[start:end]); err != nil {
			return chunks - 1, err
		}
		log.Debugf("Wrote %s (%d words)", filename, end-start)
	}
	return chunks, nil
}

func writeChunk(filename string, words []string, ranks []uint32) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create chunk %s: %w", filename, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := binary.Write(writer, binary.LittleEndian, int32(len(words))); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, word := range words {
		if err := binary.Write(writer, binary.LittleEndian, uint16(len(word))); err != nil {
			return fmt.Errorf("write word length: %w", err)
		}
		if _, err := writer.WriteString(word); err != nil {
			return fmt.Errorf("write word %s: %w", word, err)
		}
		if err := binary.Write(writer, binary.LittleEndian, ranks[i]); err != nil {
			return fmt.Errorf("write rank for %s: %w", word, err)
		}
	}
	return writer.Flush()
}
