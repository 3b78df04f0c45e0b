// Package dataset persists computed pipeline results: a small binary header
// (magic bytes plus compatibility level) followed by a zstd-compressed JSON
// payload.
package dataset

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"

	"github.com/krish-shahh/time-distortion-map/pipeline"
)

var magicBytes = []byte("TDMC")

// compatibilityLevel bumps on any payload schema break.
const compatibilityLevel uint32 = 1

// Metadata travels alongside the payload.
type Metadata struct {
	DateCreated time.Time `json:"date_created"`
}

type envelope struct {
	Metadata Metadata         `json:"metadata"`
	Result   *pipeline.Result `json:"result"`
}

// Save writes the result to w.
func Save(w io.Writer, res *pipeline.Result, meta Metadata) error {
	if _, err := w.Write(magicBytes); err != nil {
		return fmt.Errorf("error writing magic bytes: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, compatibilityLevel); err != nil {
		return fmt.Errorf("error writing compatibility level: %w", err)
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("error creating zstd writer: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(envelope{Metadata: meta, Result: res}); err != nil {
		enc.Close()
		return fmt.Errorf("error encoding dataset: %w", err)
	}
	return enc.Close()
}

// SaveToFile writes the result to path and logs the final size.
func SaveToFile(path string, res *pipeline.Result, meta Metadata, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating dataset file: %w", err)
	}
	defer file.Close()

	if err := Save(file, res, meta); err != nil {
		return err
	}

	if stat, err := file.Stat(); err == nil {
		log.Info("Dataset saved", "path", path, "size", humanize.Bytes(uint64(stat.Size())))
	}
	return nil
}

// Load reads a dataset written by Save.
func Load(r io.Reader, log *slog.Logger) (*pipeline.Result, *Metadata, error) {
	if log == nil {
		log = slog.Default()
	}

	magic := make([]byte, len(magicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, nil, fmt.Errorf("error reading magic bytes: %w", err)
	}
	if string(magic) != string(magicBytes) {
		return nil, nil, fmt.Errorf("not a dataset file: bad magic %q", magic)
	}

	var level uint32
	if err := binary.Read(r, binary.LittleEndian, &level); err != nil {
		return nil, nil, fmt.Errorf("error reading compatibility level: %w", err)
	}

	switch level {
	case compatibilityLevel:
		log.Info("Loading v1 dataset format")
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating zstd reader: %w", err)
		}
		defer dec.Close()

		var env envelope
		if err := json.NewDecoder(dec.IOReadCloser()).Decode(&env); err != nil {
			return nil, nil, fmt.Errorf("error decoding dataset: %w", err)
		}
		log.Info("Loaded dataset metadata", "date_created", env.Metadata.DateCreated)
		return env.Result, &env.Metadata, nil
	}

	return nil, nil, fmt.Errorf("unsupported compatibility level: %d", level)
}

// LoadFromFile reads a dataset from path.
func LoadFromFile(path string, log *slog.Logger) (*pipeline.Result, *Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening dataset file: %w", err)
	}
	defer file.Close()

	return Load(file, log)
}
