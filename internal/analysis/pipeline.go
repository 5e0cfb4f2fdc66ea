package analysis

import (
	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// Run ingests raw upload bytes, cleans the table and summarizes it. Any
// validation or parse error stops the pipeline before statistics are
// computed.
func Run(raw []byte, opt dataset.Options) (*dataset.Table, Summary, error) {
	tbl, err := dataset.Ingest(raw, opt)
	if err != nil {
		return nil, Summary{}, err
	}
	return finish(tbl, opt)
}

// RunFile is Run for a file on disk.
func RunFile(path string, opt dataset.Options) (*dataset.Table, Summary, error) {
	tbl, err := dataset.IngestFile(path, opt)
	if err != nil {
		return nil, Summary{}, err
	}
	return finish(tbl, opt)
}

func finish(tbl *dataset.Table, opt dataset.Options) (*dataset.Table, Summary, error) {
	cleaned, err := dataset.Clean(tbl, opt)
	if err != nil {
		return nil, Summary{}, err
	}
	return cleaned, Summarize(cleaned), nil
}
