// Package pdfinspect validates uploads before a pipeline run is accepted.
// It only checks that the file is a readable PDF and how many pages it has;
// content analysis belongs to the pipeline.
package pdfinspect

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

type Inspector struct{}

func New() Inspector {
	return Inspector{}
}

func (Inspector) PageCount(path string) (count int, err error) {
	// The underlying reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			count = 0
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	return reader.NumPage(), nil
}
