// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tabula/internal/ui/styles"
)

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

type span struct {
	text  string
	style lipgloss.Style
}

var (
	plainStyle    = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	keywordStyle  = lipgloss.NewStyle().Foreground(styles.SyntaxKeyword).Bold(true)
	stringStyle   = lipgloss.NewStyle().Foreground(styles.SyntaxString)
	numberStyle   = lipgloss.NewStyle().Foreground(styles.SyntaxNumber)
	commentStyle  = lipgloss.NewStyle().Foreground(styles.SyntaxComment).Italic(true)
	functionStyle = lipgloss.NewStyle().Foreground(styles.SyntaxFunction)
	operatorStyle = lipgloss.NewStyle().Foreground(styles.SyntaxOperator)
)

// highlightSQL splits a query into styled spans. Unknown input comes back
// as a single plain span.
func highlightSQL(text string) []span {
	lexer := lexers.Get("sql")
	if lexer == nil {
		return []span{{text: text, style: plainStyle}}
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return []span{{text: text, style: plainStyle}}
	}

	var spans []span
	for _, tok := range iterator.Tokens() {
		spans = append(spans, span{text: tok.Value, style: styleFor(tok.Type)})
	}
	// The lexer may append a newline the input did not have.
	if n := len(spans); n > 0 && !strings.HasSuffix(text, "\n") {
		spans[n-1].text = strings.TrimSuffix(spans[n-1].text, "\n")
	}
	return spans
}

func styleFor(t chroma.TokenType) lipgloss.Style {
	switch {
	case t.InCategory(chroma.Keyword):
		return keywordStyle
	case t.InSubCategory(chroma.LiteralString):
		return stringStyle
	case t.InSubCategory(chroma.LiteralNumber):
		return numberStyle
	case t.InCategory(chroma.Comment):
		return commentStyle
	case t == chroma.NameBuiltin || t == chroma.NameFunction:
		return functionStyle
	case t.InCategory(chroma.Operator):
		return operatorStyle
	default:
		return plainStyle
	}
}
