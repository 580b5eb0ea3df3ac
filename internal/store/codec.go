package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// DecodeRecords parses a JSON array of records.
// The top level must be an array whose elements are all objects, otherwise
// domain.ErrInvalidImportFormat is returned. Missing fields take zero values.
func DecodeRecords(data []byte) ([]domain.Bookmark, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: top level is not an array", domain.ErrInvalidImportFormat)
	}
	if raw == nil {
		// literal null
		return nil, fmt.Errorf("%w: top level is not an array", domain.ErrInvalidImportFormat)
	}

	records := make([]domain.Bookmark, 0, len(raw))
	for i, item := range raw {
		if first := firstByte(item); first != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", domain.ErrInvalidImportFormat, i)
		}
		var b domain.Bookmark
		if err := json.Unmarshal(item, &b); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", domain.ErrInvalidImportFormat, i, err)
		}
		if b.Tags == nil {
			b.Tags = []string{}
		}
		records = append(records, b)
	}
	return records, nil
}

// EncodeRecords is the compact form written to the slot.
func EncodeRecords(records []domain.Bookmark) ([]byte, error) {
	if records == nil {
		records = []domain.Bookmark{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bookmarks: %w", err)
	}
	return data, nil
}

// EncodeRecordsIndent is the pretty-printed export form.
func EncodeRecordsIndent(records []domain.Bookmark) ([]byte, error) {
	if records == nil {
		records = []domain.Bookmark{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bookmarks: %w", err)
	}
	return data, nil
}

func firstByte(b []byte) byte {
	b = bytes.TrimLeft(b, " \t\r\n")
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
