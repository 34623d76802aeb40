package results

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes a bundle to a JSON file
func WriteJSON(bundle *Bundle, filename string) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// ReadJSON reads a bundle from a JSON file
func ReadJSON(filename string) (*Bundle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("unmarshal bundle: %w", err)
	}

	return &bundle, nil
}

// ToJSON converts a bundle to a JSON string
func ToJSON(bundle *Bundle) (string, error) {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON parses a bundle from a JSON string
func FromJSON(jsonStr string) (*Bundle, error) {
	var bundle Bundle
	if err := json.Unmarshal([]byte(jsonStr), &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}
