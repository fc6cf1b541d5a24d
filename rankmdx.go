// Package rankmdx turns third-party product-listing articles into affiliate
// ranking articles published as MDX documents with JSON frontmatter.
//
// A source URL flows through a strictly sequential pipeline: the content
// extractor renders and cleans the page, the structuring stage asks an LLM
// for a ranked product list, the frontmatter synthesizer merges that list
// with the prices and images scraped from the page, and the MDX assembler
// writes the final document. The URL ledger tracks which URLs are done.
//
// This package contains domain types, interfaces and the pure rules shared
// by every stage, following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., rod/, gemini/, sqlite/).
package rankmdx
