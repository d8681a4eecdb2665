package segment

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
	"github.com/zeebo/xxh3"
)

const (
	fileNameFormat = "segment-%02d"
	checksumLen    = 16
)

// FileStore keeps one file per slot under a directory. Each file starts with
// the hex xxh3 checksum of the value on its own line; a file whose checksum
// does not match reads as unset.
type FileStore struct {
	dir      string
	capacity int
	logger   log.Logger
}

type FileStoreOption func(*FileStore)

func WithFileCapacity(capacity int) FileStoreOption {
	return func(s *FileStore) {
		s.capacity = capacity
	}
}

func WithFileLogger(logger log.Logger) FileStoreOption {
	return func(s *FileStore) {
		s.logger = logger
	}
}

func NewFileStore(dir string, opts ...FileStoreOption) (*FileStore, error) {
	if dir == "" {
		return nil, ErrDirEmpty
	}
	s := &FileStore{
		dir:      dir,
		capacity: DefaultCapacity,
		logger:   log.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "segment").Str("dir", dir).Logger()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create segment directory %s", dir)
	}

	return s, nil
}

// Path returns the file backing slot.
func (s *FileStore) Path(slot uint8) string {
	return filepath.Join(s.dir, fmt.Sprintf(fileNameFormat, slot))
}

func (s *FileStore) Get(slot uint8) (string, bool) {
	if int(slot) >= MaxSlots {
		return "", false
	}

	b, err := os.ReadFile(s.Path(slot))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Uint8("slot", slot).Msg("failed to read segment")
		}
		return "", false
	}

	sum, value, ok := strings.Cut(string(b), "\n")
	if !ok || len(sum) != checksumLen {
		s.logger.Warn().Uint8("slot", slot).Msg("segment has no checksum header")
		return "", false
	}
	want, err := strconv.ParseUint(sum, 16, 64)
	if err != nil || want != xxh3.HashString(value) {
		s.logger.Warn().Uint8("slot", slot).Msg("segment checksum mismatch")
		return "", false
	}

	return value, true
}

func (s *FileStore) Set(slot uint8, value string) error {
	if err := validate(slot, value, s.capacity); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, fmt.Sprintf(fileNameFormat, slot)+".*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary segment file")
	}
	defer os.Remove(tmp.Name())

	if _, err := fmt.Fprintf(tmp, "%016x\n%s", xxh3.HashString(value), value); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write segment %d", slot)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close segment %d", slot)
	}
	if err := os.Rename(tmp.Name(), s.Path(slot)); err != nil {
		return errors.Wrapf(err, "failed to commit segment %d", slot)
	}
	s.logger.Debug().Uint8("slot", slot).Int("bytes", len(value)).Msg("segment written")

	return nil
}
