package dataprocessing

import (
	"strings"

	"surveycli/internal/errors"
	"surveycli/pkg/contracts/domain"
)

// Reconciler maps raw per-year exports onto the canonical survey columns.
type Reconciler struct {
	Formats *FormatTable
}

// NewReconciler creates a reconciler over a format table, defaulting to the
// built-in layouts.
func NewReconciler(formats *FormatTable) *Reconciler {
	if formats == nil {
		formats = DefaultFormats()
	}
	return &Reconciler{Formats: formats}
}

// Reconcile renames a year's columns to canonical names and returns one
// response per raw row, in row order. Values are copied unchanged and every
// other column is dropped.
func (r *Reconciler) Reconcile(year int, table *RawTable) ([]domain.SurveyResponse, error) {
	format, ok := r.Formats.Lookup(year)
	if !ok {
		return nil, errors.NewSchemaMismatchError(year, "", "", "no survey format for year")
	}

	idx := make(map[string]int, len(domain.CanonicalColumns))
	for _, canonical := range domain.CanonicalColumns {
		src, explicit := format.SourceColumn(canonical)
		if explicit && strings.TrimSpace(src) == "" {
			return nil, errors.NewSchemaMismatchError(year, canonical, src, "source column is blank")
		}
		col := table.ColumnIndex(src)
		if col < 0 {
			return nil, errors.NewSchemaMismatchError(year, canonical, src, "source column not in header")
		}
		idx[canonical] = col
	}

	responses := make([]domain.SurveyResponse, table.Len())
	for i := range responses {
		responses[i] = domain.SurveyResponse{
			Year:                  year,
			DevType:               table.Value(i, idx[domain.ColumnDevType]),
			LanguagesWorkedWith:   table.Value(i, idx[domain.ColumnLanguageHaveWorkedWith]),
			LanguagesWantWorkWith: table.Value(i, idx[domain.ColumnLanguageWantToWorkWith]),
		}
	}
	return responses, nil
}
