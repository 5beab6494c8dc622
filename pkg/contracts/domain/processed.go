package domain

import "strconv"

// Boolean cells of the processed table.
const (
	TrueText  = "True"
	FalseText = "False"
)

// ProcessedColumns returns the header of the processed survey table: the
// year, the canonical text columns, IsDataScientist, then one flag per
// language for each intent.
func ProcessedColumns(languages []Language) []string {
	cols := make([]string, 0, 5+2*len(languages))
	cols = append(cols, ColumnYear)
	cols = append(cols, CanonicalColumns...)
	cols = append(cols, ColumnIsDataScientist)
	for _, intent := range Intents {
		for _, lang := range languages {
			cols = append(cols, FeatureColumn(lang, intent))
		}
	}
	return cols
}

// FormatBool renders a flag as it is stored in the processed table.
func FormatBool(v bool) string {
	if v {
		return TrueText
	}
	return FalseText
}

// Record renders the response as a processed table row matching
// ProcessedColumns. Missing answers are empty cells.
func (r SurveyResponse) Record(languages []Language) []string {
	rec := make([]string, 0, 5+2*len(languages))
	rec = append(rec,
		strconv.Itoa(r.Year),
		r.DevType.Value,
		r.LanguagesWorkedWith.Value,
		r.LanguagesWantWorkWith.Value,
		FormatBool(r.IsDataScientist),
	)
	for _, intent := range Intents {
		for _, lang := range languages {
			rec = append(rec, FormatBool(r.Feature(lang, intent)))
		}
	}
	return rec
}
