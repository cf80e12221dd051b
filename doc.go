// Package bibdb parses and serializes bibtex databases while preserving
// their logical structure: @string macro definitions, macro references
// inside field values, and the # concatenation operator survive a parse
// and round-trip back to source text instead of being flattened eagerly.
package bibdb

// BNF
// Database     ::= (Junk '@' Entry)*
// Entry        ::= Comment
//               |  Preamble
//               |  String
//               |  Record
// Comment      ::= "comment" .*                       -- skipped to next '@'
// Preamble     ::= "preamble" '{' Value '}'
// String       ::= "string" '{' Name '=' Value '}'
// Record       ::= Type '{' Key ',' Field* '}'
//               |  Type '(' Key ',' Field* ')'
// Type         ::= Name
// Key          ::= [^,}]*
// Field        ::= Name '=' Value
// Name         ::= [^0-9"#%'(){}=] [^"#%'(){}=]*
// Value        ::= Piece ('#' Piece)*
// Piece        ::= [0-9]+
//               |  Name                               -- macro reference
//               |  '"' ([^"] | balanced braces)* '"'
//               |  '{' .* '}'                         -- (balanced)
