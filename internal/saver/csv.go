package saver

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"barbridge/internal/model"
)

var csvHeader = []string{"t", "o", "h", "l", "c", "v", "vw", "n"}

// CSVSaver writes a packet as CSV with a t,o,h,l,c,v,vw,n header.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(bars []model.Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range toRecords(bars) {
		if err := w.Write([]string{
			strconv.FormatInt(r.T, 10),
			floatStr(r.O),
			floatStr(r.H),
			floatStr(r.L),
			floatStr(r.C),
			floatStr(r.V),
			floatStr(r.VW),
			strconv.FormatInt(r.N, 10),
		}); err != nil {
			return fmt.Errorf("write row %d: %w", r.T, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
