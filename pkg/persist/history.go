package persist

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/maxgio92/tickprof/pkg/profiler"
	"github.com/maxgio92/tickprof/pkg/segment"
)

// History is the sequence of table snapshots persisted in a segment, one per
// flushed cycle, oldest first.
type History struct {
	Data []*profiler.Table `json:"data"`
}

// Encode serializes h as {"data":[<table>...]}.
func Encode(h History) (string, error) {
	if h.Data == nil {
		h.Data = []*profiler.Table{}
	}
	b, err := json.Marshal(h)
	if err != nil {
		return "", &SerializeError{Err: err}
	}

	return string(b), nil
}

func Decode(s string) (History, error) {
	var h History
	if err := json.Unmarshal([]byte(s), &h); err != nil {
		return History{}, errors.Wrap(err, "failed to decode profile history")
	}
	if h.Data == nil {
		h.Data = []*profiler.Table{}
	}
	for i, table := range h.Data {
		if table == nil {
			return History{}, errors.Errorf("failed to decode profile history: snapshot %d is null", i)
		}
	}

	return h, nil
}

// Load reads and decodes the history stored in slot.
func Load(store segment.Store, slot uint8) (History, error) {
	value, ok := store.Get(slot)
	if !ok {
		return History{}, errors.Wrapf(ErrSegmentNotFound, "slot %d", slot)
	}

	return Decode(value)
}
