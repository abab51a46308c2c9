package semtok

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshedit/fresh/internal/lspproto"
	"github.com/freshedit/fresh/internal/piecetree"
)

var testLegend = lspproto.SemanticTokensLegend{
	TokenTypes:     []string{"keyword", "variable", "function"},
	TokenModifiers: []string{"readonly", "static"},
}

func TestDecodeSingleToken(t *testing.T) {
	ctx := context.Background()
	tree := piecetree.New([]byte("let foo = 1\n"))
	// one token: line 0, char 0, length 3, type "keyword" (0), no modifiers
	data := []uint32{0, 0, 3, 0, 0}

	tokens := Decode(ctx, tree, data, testLegend)
	require.Len(t, tokens, 1)
	assert.Equal(t, int64(0), tokens[0].Start)
	assert.Equal(t, int64(3), tokens[0].End)
	assert.Equal(t, "keyword", tokens[0].TokenType)
	assert.Empty(t, tokens[0].Modifiers)
}

func TestDecodeAppliesDeltaLineAndCharEncoding(t *testing.T) {
	ctx := context.Background()
	tree := piecetree.New([]byte("let foo = 1\nprint(foo)\n"))
	data := []uint32{
		0, 4, 3, 1, 1, // line 0, char 4, len 3, type variable(1), modifier readonly(bit0)
		1, 6, 3, 1, 2, // next line (delta 1), char 6, len 3, type variable, modifier static(bit1)
	}

	tokens := Decode(ctx, tree, data, testLegend)
	require.Len(t, tokens, 2)

	assert.Equal(t, "variable", tokens[0].TokenType)
	assert.Equal(t, []string{"readonly"}, tokens[0].Modifiers)

	assert.Equal(t, "variable", tokens[1].TokenType)
	assert.Equal(t, []string{"static"}, tokens[1].Modifiers)
	assert.True(t, tokens[1].Start > tokens[0].Start)
}

func TestDecodeOutOfRangeTypeIndexLeavesTokenTypeEmpty(t *testing.T) {
	ctx := context.Background()
	tree := piecetree.New([]byte("x\n"))
	data := []uint32{0, 0, 1, 99, 0}
	tokens := Decode(ctx, tree, data, testLegend)
	require.Len(t, tokens, 1)
	assert.Empty(t, tokens[0].TokenType)
}

func TestApplyDeltaInsertAndDelete(t *testing.T) {
	old := []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	edits := []lspproto.SemanticTokensEdit{
		{Start: 5, DeleteCount: 5, Data: []uint32{100, 200}},
	}
	got := ApplyDelta(old, edits)
	assert.Equal(t, []uint32{1, 2, 3, 4, 5, 100, 200}, got)
}

func TestApplyDeltaMultipleEditsInSequence(t *testing.T) {
	old := []uint32{1, 2, 3, 4, 5}
	edits := []lspproto.SemanticTokensEdit{
		{Start: 0, DeleteCount: 1, Data: []uint32{9}},
		{Start: 4, DeleteCount: 0, Data: []uint32{99}},
	}
	got := ApplyDelta(old, edits)
	assert.Equal(t, []uint32{9, 2, 3, 4, 99, 5}, got)
}

func TestApplyDeltaClampsOutOfRangeStart(t *testing.T) {
	old := []uint32{1, 2, 3}
	edits := []lspproto.SemanticTokensEdit{
		{Start: 10, DeleteCount: 0, Data: []uint32{4}},
	}
	got := ApplyDelta(old, edits)
	assert.Equal(t, []uint32{1, 2, 3, 4}, got)
}
