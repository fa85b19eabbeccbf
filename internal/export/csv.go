package export

import (
	"encoding/csv"
	"io"
)

var csvHeader = []string{"section", "key", "label", "value", "display", "unit"}

func writeCSV(d *document, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range d.sections {
		for _, l := range s.lines {
			value := l.raw.String()
			if l.unit == unitText {
				value = l.text
			}
			if err := cw.Write([]string{s.key, l.key, l.label, value, l.display(), string(l.unit)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
