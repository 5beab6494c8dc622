// Package files locates survey exports on disk and writes outputs so that a
// failed run never leaves a partial file behind.
//
// Discovery resolves each year's export under the raw data directory,
// falling back between .csv and .xlsx, and lists the developer_survey_YYYY
// directories present. AtomicFile and WriteAtomic provide the atomic replace
// used by the exporters and the run manifest.
package files
