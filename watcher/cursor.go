package watcher

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Cursor remembers the id of the last status posted.
type Cursor interface {
	Load(ctx context.Context) (id uint64, ok bool, err error)
	Save(ctx context.Context, id uint64) error
}

// FileCursor stores the cursor as a decimal id in a local file. A missing or
// unreadable file means no cursor.
type FileCursor struct {
	Path string
}

func (f FileCursor) Load(_ context.Context) (uint64, bool, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return 0, false, nil
	}
	id, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return id, true, nil
}

func (f FileCursor) Save(_ context.Context, id uint64) error {
	if err := os.WriteFile(f.Path, []byte(strconv.FormatUint(id, 10)), 0o644); err != nil {
		return fmt.Errorf("writing cursor %v: %w", f.Path, err)
	}
	return nil
}
