package files

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/internal/errors"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("DevType\n"), 0644))
}

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindSurveyExport(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		source   string
		wantName string
		wantErr  bool
	}{
		{
			name:     "configured csv",
			files:    []string{"developer_survey_2021/survey_results_public.csv"},
			source:   "developer_survey_2021/survey_results_public.csv",
			wantName: "survey_results_public.csv",
		},
		{
			name:     "csv preferred over xlsx",
			files:    []string{"developer_survey_2021/survey_results_public.csv", "developer_survey_2021/survey_results_public.xlsx"},
			source:   "developer_survey_2021/survey_results_public.csv",
			wantName: "survey_results_public.csv",
		},
		{
			name:     "falls back to xlsx",
			files:    []string{"developer_survey_2021/survey_results_public.xlsx"},
			source:   "developer_survey_2021/survey_results_public.csv",
			wantName: "survey_results_public.xlsx",
		},
		{
			name:     "falls back to csv",
			files:    []string{"developer_survey_2021/survey_results_public.csv"},
			source:   "developer_survey_2021/survey_results_public.xlsx",
			wantName: "survey_results_public.csv",
		},
		{
			name:    "missing",
			files:   []string{"developer_survey_2020/survey_results_public.csv"},
			source:  "developer_survey_2021/survey_results_public.csv",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				touch(t, filepath.Join(dir, f))
			}

			info, err := NewDiscovery(dir).FindSurveyExport(2021, tt.source)
			if tt.wantErr {
				require.Error(t, err)
				var appErr *errors.AppError
				require.True(t, stderrors.As(err, &appErr))
				assert.Equal(t, errors.ErrTypeNotFound, appErr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, info.Name)
			assert.True(t, filepath.IsAbs(info.Path))
			assert.Greater(t, info.Size, int64(0))
		})
	}
}

func TestListSurveyYears(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"developer_survey_2019", "developer_survey_2017", "developer_survey_notes", "other"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0755))
	}
	touch(t, filepath.Join(dir, "developer_survey_2030"))

	years, err := NewDiscovery(dir).ListSurveyYears("")
	require.NoError(t, err)
	assert.Equal(t, []int{2017, 2019}, years)

	_, err = NewDiscovery(dir).ListSurveyYears("missing")
	assert.Error(t, err)
}
