package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/rankmdx"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	article, err := deps.Extractor.ExtractArticle(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankmdx.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(article); err != nil {
		return fmt.Errorf("encoding article: %w", err)
	}
	return nil
}
