package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"surveycli/pkg/contracts/domain"
)

func TestMentions(t *testing.T) {
	tests := []struct {
		name     string
		language string
		text     string
		want     bool
	}{
		{"leading token", "Python", "python;c++;java", true},
		{"trailing token", "Python", "java;c++;Python", true},
		{"space after delimiter", "Python", "Java; Python", true},
		{"absent", "Python", "java;c++", false},
		{"exact match", "R", "r", true},
		{"exact match mixed case", "Julia", "JULIA", true},
		{"null renders as nan", "Julia", "nan", false},
		{"single other language", "R", "Rust", false},
		{"token ending in lang before delimiter", "R", "Assembler;Java", true},
		{"token starting with lang after delimiter", "R", "Java;Ruby", true},
		{"lang inside token away from delimiter", "R", "Fortran;Java", false},
		{"prefix without delimiter", "Python", "Python3", false},
		{"empty text", "R", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mentions(tt.language, tt.text))
		})
	}
}

func TestMentionsText(t *testing.T) {
	assert.True(t, MentionsText("Python", domain.NewText("Python;R")))
	assert.False(t, MentionsText("Python", domain.Null()))
	assert.False(t, MentionsText("nan", domain.NewText("R")))
	// a missing answer reads as "nan", which only a language named nan matches
	assert.True(t, MentionsText("nan", domain.Null()))
}

func TestIsRelevantRole(t *testing.T) {
	tests := []struct {
		name    string
		devType string
		want    bool
	}{
		{"data scientist", "Data Scientist", true},
		{"backend", "Backend Developer", false},
		{"machine learning", "Machine learning specialist", true},
		{"statistics in list", "Developer, back-end;Data or business analyst;Data scientist or machine learning specialist", true},
		{"substring match", "Biostatistics researcher", true},
		{"abbreviation", "ML Engineer", false},
		{"null renders as nan", "nan", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRelevantRole(tt.devType))
		})
	}
}

func TestIsRelevantRoleText(t *testing.T) {
	assert.True(t, IsRelevantRoleText(domain.NewText("Data Scientist")))
	assert.False(t, IsRelevantRoleText(domain.Null()))
}
