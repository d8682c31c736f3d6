package export

import (
	"encoding/json"
	"fmt"
)

// ReportJSON serializes any report or record structure as indented JSON,
// byte-for-byte reflecting the structure's fields.
func ReportJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	return string(data) + "\n", nil
}
