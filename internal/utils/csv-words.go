package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// ReadObjectivesFile loads extra objective words from a CSV file. The first
// column is the word; any further columns are ignored, as is a "word" header.
func ReadObjectivesFile(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read objectives file %s: %w", filePath, err)
	}
	defer f.Close()

	return ReadObjectives(f)
}

func ReadObjectives(r io.Reader) ([]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to parse objectives as CSV: %w", err)
	}

	var words []string
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		word := SanitizeName(record[0])
		if word == "" {
			log.Warn().Int("line", i+1).Msg("[ReadObjectives] skipping empty record")
			continue
		}
		if i == 0 && strings.EqualFold(word, "word") {
			continue
		}
		words = append(words, word)
	}
	return words, nil
}
