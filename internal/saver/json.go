package saver

import (
	"encoding/json"
	"os"

	"barbridge/internal/model"
)

// JSONSaver writes a packet as an indented JSON array of records.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(bars []model.Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toRecords(bars)); err != nil {
		return err
	}
	return f.Close()
}
