// Package parser extracts raw artist/title rows from playlist page markup.
//
// # Strategies
//
// Page layouts differ between shows and site generations, so extraction is an ordered list of
// [Strategy] implementations. [Parser.Parse] tries each in turn and returns the first non-empty result:
//
//  1. [TableStrategy] : tables whose header cells name an artist and/or title column
//  2. [ClassStrategy] : parallel lists of artist-role and title-role elements of equal length
//  3. [RowStrategy] : row containers holding a nested artist and/or title element
//
// A strategy that finds any row wins, even if some rows are blank. Filtering happens downstream.
//
// # Selectors
//
// Class names and header synonyms are a contract with the page's markup, not with one site.
// They live in [Selectors] and can be overridden from configuration.
//
// # Encoding
//
// Markup is read as bytes and decoded with [charset.NewReader], which honours the Content-Type
// header, a byte order mark or a meta charset tag before falling back to UTF-8 detection.
package parser
