package fleet

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// EncodeCursor hides the surrogate heartbeat id behind an opaque token.
func EncodeCursor(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte("hb:" + strconv.FormatUint(uint64(id), 10)))
}

// DecodeCursor returns 0 for an empty cursor.
func DecodeCursor(v string) (uint, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	raw, found := strings.CutPrefix(string(b), "hb:")
	if !found {
		return 0, ErrInvalidCursor
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidCursor
	}
	return uint(id), nil
}
