package storage

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ObjectKey builds the storage key for a new attachment:
//
//	{prefix}{task_id}/{random_token}.{ext}
//
// The random token makes the final path segment unique, which matters for the
// local backend's flat on-disk layout. The extension comes from the original
// filename's last dot-segment, defaulting to "bin".
func ObjectKey(prefix string, taskID uuid.UUID, filename string) string {
	ext := "bin"
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		ext = filename[i+1:]
	}

	token := uuid.New()
	return fmt.Sprintf("%s%s/%s.%s", prefix, taskID, hex.EncodeToString(token[:]), ext)
}
