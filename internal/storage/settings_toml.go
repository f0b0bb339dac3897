package storage

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

func decodeTOML(rawData []byte, fileData *fileSettings) error {
	if _, err := toml.Decode(string(rawData), fileData); err != nil {
		return fmt.Errorf("parse settings toml: %w", err)
	}
	return nil
}

func encodeTOML(fileData fileSettings) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(fileData); err != nil {
		return nil, fmt.Errorf("marshal settings toml: %w", err)
	}
	return buf.Bytes(), nil
}
