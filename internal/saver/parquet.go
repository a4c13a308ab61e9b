package saver

import (
	"github.com/parquet-go/parquet-go"

	"barbridge/internal/model"
)

// ParquetSaver writes a packet as a Parquet file with the Record schema.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(bars []model.Bar, path string) error {
	return parquet.WriteFile(path, toRecords(bars))
}
