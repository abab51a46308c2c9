// Package semtok decodes LSP semantic-tokens responses into byte ranges
// and caches one store per buffer (§4.7 "Semantic Token Store").
package semtok

import (
	"context"

	"github.com/freshedit/fresh/internal/lspproto"
	"github.com/freshedit/fresh/internal/piecetree"
)

// Token is one decoded semantic-tokens entry, positioned as a byte range
// in the buffer rather than the wire (line, utf16-col) encoding.
type Token struct {
	Start, End int64
	TokenType  string
	Modifiers  []string
}

// Decode expands the server's delta-encoded uint32 quintuples
// (deltaLine, deltaStartChar, length, tokenType, tokenModifiers) into
// Tokens, resolving type/modifier indices against legend and converting
// positions to byte offsets via tree's LSP position mapping (§4.7 "Token
// byte ranges are computed from the LSP (line, utf16-col) encoding and
// the server legend").
func Decode(ctx context.Context, tree *piecetree.Tree, data []uint32, legend lspproto.SemanticTokensLegend) []Token {
	var tokens []Token
	var line, char int64
	for i := 0; i+5 <= len(data); i += 5 {
		deltaLine := int64(data[i])
		deltaStart := int64(data[i+1])
		length := int64(data[i+2])
		typeIdx := data[i+3]
		modBits := data[i+4]

		if deltaLine > 0 {
			line += deltaLine
			char = deltaStart
		} else {
			char += deltaStart
		}

		start := tree.LSPPositionToByte(ctx, line, char)
		end := tree.LSPPositionToByte(ctx, line, char+length)

		tok := Token{Start: start, End: end}
		if int(typeIdx) < len(legend.TokenTypes) {
			tok.TokenType = legend.TokenTypes[typeIdx]
		}
		for b := 0; b < len(legend.TokenModifiers); b++ {
			if modBits&(1<<uint(b)) != 0 {
				tok.Modifiers = append(tok.Modifiers, legend.TokenModifiers[b])
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// ApplyDelta splices a semanticTokens/full/delta response's edits into the
// previous raw data array, each edit applied in turn against the result of
// the one before it (per the LSP spec's semantic-tokens delta algorithm),
// yielding the new full raw data array ready for Decode.
func ApplyDelta(old []uint32, edits []lspproto.SemanticTokensEdit) []uint32 {
	data := append([]uint32(nil), old...)
	for _, e := range edits {
		start := e.Start
		if start > len(data) {
			start = len(data)
		}
		end := start + e.DeleteCount
		if end > len(data) {
			end = len(data)
		}
		tail := append([]uint32(nil), data[end:]...)
		data = append(data[:start:start], e.Data...)
		data = append(data, tail...)
	}
	return data
}
