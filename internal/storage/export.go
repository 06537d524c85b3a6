package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/pathsim/internal/walk"
)

type ExportData struct {
	Run   *RunMetadata `json:"run"`
	Paths walk.PathSet `json:"paths"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, paths walk.PathSet) error {
	data := ExportData{Run: meta, Paths: paths}
	if data.Paths == nil {
		data.Paths = walk.PathSet{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportCSV(w io.Writer, paths walk.PathSet) error {
	return WritePoints(w, paths)
}
