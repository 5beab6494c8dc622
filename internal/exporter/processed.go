package exporter

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"surveycli/internal/errors"
	"surveycli/pkg/contracts/domain"
)

// ProcessedStore persists the processed survey table. The table is the cache
// between runs: when it exists the raw exports need not be read again.
type ProcessedStore struct {
	writer    *CSVWriter
	languages []domain.Language
	logger    *slog.Logger
}

// NewProcessedStore creates a store for tables carrying flags for languages.
func NewProcessedStore(languages []domain.Language, logger *slog.Logger) *ProcessedStore {
	if len(languages) == 0 {
		languages = domain.DefaultLanguages
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessedStore{
		writer:    NewCSVWriter(nil),
		languages: languages,
		logger:    logger,
	}
}

// Header returns the processed table columns.
func (s *ProcessedStore) Header() []string {
	return domain.ProcessedColumns(s.languages)
}

// Write replaces the table at path with rows. On failure the previous table,
// if any, is left in place.
func (s *ProcessedStore) Write(path string, rows []domain.SurveyResponse) error {
	stream, err := s.writer.CreateStreamWriter(path, s.Header(), false)
	if err != nil {
		return errors.NewStorageError("failed to create processed table", err)
	}

	for i, r := range rows {
		if err := stream.WriteRecord(r.Record(s.languages)); err != nil {
			stream.Abort()
			return errors.NewStorageError(fmt.Sprintf("failed to write processed row %d", i), err)
		}
	}

	if err := stream.Close(); err != nil {
		return errors.NewStorageError("failed to commit processed table", err)
	}

	s.logger.Info("processed_table_written",
		slog.String("path", path),
		slog.Int("rows", stream.Count()))
	return nil
}

// Exists reports whether a processed table is present at path.
func (s *ProcessedStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Read loads the table at path.
func (s *ProcessedStore) Read(path string) ([]domain.SurveyResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open processed table", err)
	}
	defer f.Close()

	rows, err := s.Decode(f, path)
	if err != nil {
		return nil, err
	}

	s.logger.Info("processed_table_loaded",
		slog.String("path", path),
		slog.Int("rows", len(rows)))
	return rows, nil
}

// Decode parses a processed table. The header must match exactly and every
// cell must parse; path is only used in errors.
func (s *ProcessedStore) Decode(r io.Reader, path string) ([]domain.SurveyResponse, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewMalformedCSVError(path, 1, fmt.Errorf("missing header"))
	}
	if err != nil {
		return nil, parseError(path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], string(utf8BOM))
	}

	want := s.Header()
	if len(header) != len(want) {
		return nil, errors.NewMalformedCSVError(path, 1,
			fmt.Errorf("expected %d columns, got %d", len(want), len(header)))
	}
	for i := range want {
		if header[i] != want[i] {
			return nil, errors.NewMalformedCSVError(path, 1,
				fmt.Errorf("column %d is %q, expected %q", i+1, header[i], want[i]))
		}
	}

	var rows []domain.SurveyResponse
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(path, err)
		}
		row, err := s.decodeRecord(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, errors.NewMalformedCSVError(path, line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *ProcessedStore) decodeRecord(record []string) (domain.SurveyResponse, error) {
	year, err := strconv.Atoi(record[0])
	if err != nil {
		return domain.SurveyResponse{}, fmt.Errorf("invalid year %q", record[0])
	}

	row := domain.SurveyResponse{
		Year:                  year,
		DevType:               textCell(record[1]),
		LanguagesWorkedWith:   textCell(record[2]),
		LanguagesWantWorkWith: textCell(record[3]),
	}
	if row.IsDataScientist, err = parseBool(record[4]); err != nil {
		return row, err
	}

	col := 5
	for _, intent := range domain.Intents {
		for _, lang := range s.languages {
			v, err := parseBool(record[col])
			if err != nil {
				return row, err
			}
			row.SetFeature(lang, intent, v)
			col++
		}
	}
	return row, nil
}

func textCell(v string) domain.Text {
	if v == "" {
		return domain.Null()
	}
	return domain.NewText(v)
}

func parseBool(v string) (bool, error) {
	switch v {
	case domain.TrueText:
		return true, nil
	case domain.FalseText:
		return false, nil
	}
	return false, fmt.Errorf("invalid flag %q", v)
}

func parseError(path string, err error) error {
	var pe *csv.ParseError
	if stderrors.As(err, &pe) {
		return errors.NewMalformedCSVError(path, pe.Line, pe.Err)
	}
	return errors.NewMalformedCSVError(path, 0, err)
}
