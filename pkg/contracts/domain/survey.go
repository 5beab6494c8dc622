package domain

import "strings"

// Canonical column names of the unified survey table. They follow the newest
// survey export so that year needs no renaming.
const (
	ColumnYear                   = "Year"
	ColumnDevType                = "DevType"
	ColumnLanguageHaveWorkedWith = "LanguageHaveWorkedWith"
	ColumnLanguageWantToWorkWith = "LanguageWantToWorkWith"
	ColumnIsDataScientist        = "IsDataScientist"
)

// CanonicalColumns lists the text columns every survey year is reconciled into.
var CanonicalColumns = []string{
	ColumnDevType,
	ColumnLanguageHaveWorkedWith,
	ColumnLanguageWantToWorkWith,
}

// NullText is how a missing survey answer renders when it is matched against
// language or role names.
const NullText = "nan"

// Text is a survey answer that may be missing.
type Text struct {
	Value string
	Valid bool
}

// NewText returns a present answer.
func NewText(v string) Text {
	return Text{Value: v, Valid: true}
}

// Null returns a missing answer.
func Null() Text {
	return Text{}
}

// IsNull reports whether the answer is missing.
func (t Text) IsNull() bool {
	return !t.Valid
}

// String returns the answer, or NullText when it is missing.
func (t Text) String() string {
	if !t.Valid {
		return NullText
	}
	return t.Value
}

// Language is a programming language tracked by the pipeline.
type Language string

const (
	LanguagePython Language = "Python"
	LanguageR      Language = "R"
	LanguageJulia  Language = "Julia"
)

// DefaultLanguages are the languages the reports compare, in report order.
var DefaultLanguages = []Language{LanguagePython, LanguageR, LanguageJulia}

// Intent distinguishes current usage from desired usage.
type Intent string

const (
	IntentWorkedWith   Intent = "WorkedWith"
	IntentWantWorkWith Intent = "WantWorkWith"
)

// Intents lists every intent in report order.
var Intents = []Intent{IntentWorkedWith, IntentWantWorkWith}

// FeatureColumn returns the derived boolean column name, e.g. PythonWorkedWith.
func FeatureColumn(lang Language, intent Intent) string {
	return string(lang) + string(intent)
}

// SurveyResponse is one respondent after schema reconciliation. The derived
// fields are filled by feature engineering and are pure functions of the text
// fields.
type SurveyResponse struct {
	Year                  int
	DevType               Text
	LanguagesWorkedWith   Text
	LanguagesWantWorkWith Text

	IsDataScientist bool
	WorkedWith      map[Language]bool
	WantWorkWith    map[Language]bool
}

// Feature returns the derived flag for a language and intent.
func (r SurveyResponse) Feature(lang Language, intent Intent) bool {
	switch intent {
	case IntentWorkedWith:
		return r.WorkedWith[lang]
	case IntentWantWorkWith:
		return r.WantWorkWith[lang]
	}
	return false
}

// SetFeature records a derived flag for a language and intent.
func (r *SurveyResponse) SetFeature(lang Language, intent Intent, v bool) {
	switch intent {
	case IntentWorkedWith:
		if r.WorkedWith == nil {
			r.WorkedWith = make(map[Language]bool)
		}
		r.WorkedWith[lang] = v
	case IntentWantWorkWith:
		if r.WantWorkWith == nil {
			r.WantWorkWith = make(map[Language]bool)
		}
		r.WantWorkWith[lang] = v
	}
}

// HasLanguages reports whether at least one language answer is present.
func (r SurveyResponse) HasLanguages() bool {
	return r.LanguagesWorkedWith.Valid || r.LanguagesWantWorkWith.Valid
}

// ParseLanguage matches a configured language name against the known set,
// case-insensitively. Unknown names are kept as given.
func ParseLanguage(name string) Language {
	for _, l := range DefaultLanguages {
		if strings.EqualFold(string(l), name) {
			return l
		}
	}
	return Language(strings.TrimSpace(name))
}
