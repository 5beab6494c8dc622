// Package config provides configuration management for the survey pipeline.
// It handles loading configuration from multiple sources, validation, and the
// resolution of every file system path a run touches.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SURVEY_<SECTION>_<FIELD>:
//
//	SURVEY_CONFIG=configs/config.yaml
//	SURVEY_LOGGING_LEVEL=debug
//	SURVEY_PATHS_RAW_DIR=/srv/surveys
//	SURVEY_PIPELINE_YEARS=2019,2020,2021
//	SURVEY_PIPELINE_WORKERS=4
//	SURVEY_PIPELINE_EMPTY_YEAR_POLICY=zero
//
// # Path Management
//
// Paths are explicit configuration. NewPaths resolves relative entries
// against paths.base_dir so tests can point a whole run at a temporary
// directory. A relative logging.file_path is placed inside paths.logs_dir:
//
//	paths, err := config.NewPaths(cfg.Paths)
//	logFile := paths.GetLogPath(cfg.Logging.FilePath)
package config
