package batch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/trunov/imgconvert/internal/entities"
)

// buildArchive writes successful outputs in selection order. Entries are
// stored uncompressed since the payloads are already compressed images.
// Clashing names get a " (n)" suffix so every success has its own entry.
func buildArchive(files []File, outputs [][]byte, format entities.Format, results []FileResult) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	used := make(map[string]struct{})
	now := time.Now()

	for i, data := range outputs {
		if data == nil {
			continue
		}
		name := uniqueName(EntryName(files[i].Name, format), used)

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Store,
			Modified: now,
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		results[i].Entry = name
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func uniqueName(name string, used map[string]struct{}) string {
	candidate := name
	stem, ext, _ := strings.Cut(name, ".")
	for n := 1; ; n++ {
		if _, taken := used[candidate]; !taken {
			used[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s (%d).%s", stem, n, ext)
	}
}
