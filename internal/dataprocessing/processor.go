package dataprocessing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"surveycli/pkg/contracts/domain"
)

// minChunk is the smallest slice of rows handed to one worker.
const minChunk = 512

// FeatureEngineer derives the role and language flags of survey responses.
type FeatureEngineer struct {
	Languages []domain.Language
	// Workers bounds the goroutines used; 1 or less runs inline.
	Workers int
}

// NewFeatureEngineer creates a feature engineer for the given languages,
// defaulting to Python, R and Julia.
func NewFeatureEngineer(languages []domain.Language, workers int) *FeatureEngineer {
	if len(languages) == 0 {
		languages = domain.DefaultLanguages
	}
	if workers < 1 {
		workers = 1
	}
	return &FeatureEngineer{Languages: languages, Workers: workers}
}

// Engineer sets IsDataScientist and every language flag on rows in place.
// Row order is unchanged. Rows are split into contiguous chunks so parallel
// runs produce the same result as a serial one.
func (e *FeatureEngineer) Engineer(ctx context.Context, rows []domain.SurveyResponse) error {
	workers := e.Workers
	if workers <= 1 || len(rows) <= minChunk {
		return e.engineerChunk(ctx, rows)
	}

	chunk := (len(rows) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(rows); start += chunk {
		end := start + chunk
		if end > len(rows) {
			end = len(rows)
		}
		part := rows[start:end]
		g.Go(func() error {
			return e.engineerChunk(gctx, part)
		})
	}
	return g.Wait()
}

func (e *FeatureEngineer) engineerChunk(ctx context.Context, rows []domain.SurveyResponse) error {
	for i := range rows {
		if i%minChunk == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		e.apply(&rows[i])
	}
	return nil
}

func (e *FeatureEngineer) apply(r *domain.SurveyResponse) {
	r.IsDataScientist = IsRelevantRoleText(r.DevType)
	r.WorkedWith = make(map[domain.Language]bool, len(e.Languages))
	r.WantWorkWith = make(map[domain.Language]bool, len(e.Languages))
	for _, lang := range e.Languages {
		r.WorkedWith[lang] = MentionsText(string(lang), r.LanguagesWorkedWith)
		r.WantWorkWith[lang] = MentionsText(string(lang), r.LanguagesWantWorkWith)
	}
}

// FilterDataScientists keeps responses whose role answer is data science
// related, setting IsDataScientist on the kept rows. It returns the kept
// rows in order and the number removed.
func FilterDataScientists(rows []domain.SurveyResponse) ([]domain.SurveyResponse, int) {
	kept := make([]domain.SurveyResponse, 0, len(rows))
	for _, r := range rows {
		if !IsRelevantRoleText(r.DevType) {
			continue
		}
		r.IsDataScientist = true
		kept = append(kept, r)
	}
	return kept, len(rows) - len(kept)
}

// DropMissingLanguages removes responses where both language answers are
// missing. A response with only one of them is kept.
func DropMissingLanguages(rows []domain.SurveyResponse) ([]domain.SurveyResponse, int) {
	kept := make([]domain.SurveyResponse, 0, len(rows))
	for _, r := range rows {
		if r.HasLanguages() {
			kept = append(kept, r)
		}
	}
	return kept, len(rows) - len(kept)
}

// CountByYear returns the number of responses per survey year.
func CountByYear(rows []domain.SurveyResponse) map[int]int {
	counts := make(map[int]int)
	for _, r := range rows {
		counts[r.Year]++
	}
	return counts
}
