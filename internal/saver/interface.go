package saver

import (
	"fmt"
	"strings"

	"barbridge/internal/model"
)

// PacketSaver writes one ticker's bars to a single file.
// The export client depends on this interface only; main picks the format.
type PacketSaver interface {
	Save(bars []model.Bar, path string) error
	Extension() string
}

// NewPacketSaver creates the implementation for format (csv, parquet, json).
func NewPacketSaver(format string) (PacketSaver, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}, nil
	case "parquet":
		return ParquetSaver{}, nil
	case "json":
		return JSONSaver{}, nil
	default:
		return nil, fmt.Errorf("unsupported save format %q (use: csv, json, parquet)", format)
	}
}
