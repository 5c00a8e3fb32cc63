// Package token defines the closed set of Pico lexical categories.
// Invariants:
//   - Catalog order is fixed: keyword and punctuation literals first, then
//     IDENTIFIER, then NATNUMBER. Resolution is first-match-wins, so "begin"
//     is always BEGIN even though it also satisfies the identifier pattern.
//   - A Token is never constructed with a Value its Kind does not accept.
//   - Token positions are plain data captured when the lexeme was scanned.
package token
