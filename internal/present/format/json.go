package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/marketeer/internal/history"
	"github.com/mithrel/marketeer/pkg/api"
	"github.com/mithrel/marketeer/pkg/markup"
)

// ResultView is a result together with its rendered block tree.
type ResultView struct {
	api.AnalysisResult
	Blocks []markup.Block `json:"blocks"`
}

func newEncoder(w io.Writer, indent bool) *json.Encoder {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc
}

func nonNil(blocks []markup.Block) []markup.Block {
	if blocks == nil {
		return []markup.Block{}
	}
	return blocks
}

func WriteJSONBlocks(w io.Writer, blocks []markup.Block, indent bool) error {
	return newEncoder(w, indent).Encode(nonNil(blocks))
}

func WriteJSONResult(w io.Writer, r api.AnalysisResult, indent bool) error {
	return newEncoder(w, indent).Encode(ResultView{AnalysisResult: r, Blocks: nonNil(r.Blocks())})
}

func WriteJSONHistory(w io.Writer, items []history.Item, indent bool) error {
	if items == nil {
		items = []history.Item{}
	}
	return newEncoder(w, indent).Encode(items)
}

func WriteJSONValue(w io.Writer, v any, indent bool) error {
	return newEncoder(w, indent).Encode(v)
}
