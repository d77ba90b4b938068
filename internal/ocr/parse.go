package ocr

import (
	"sort"
	"strings"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

// parseAnnotation reduces a Vision response to a Result, trying the richest
// shape first: structured page/block hierarchy, then the flat full-text
// annotation, then the first plain text annotation. An empty Result is
// returned when nothing is recoverable.
func parseAnnotation(resp *visionpb.AnnotateImageResponse) *Result {
	if full := resp.GetFullTextAnnotation(); full != nil {
		blocks := collectBlocks(full)
		if len(blocks) > 0 {
			sort.SliceStable(blocks, func(i, j int) bool {
				return blocks[i].MinY < blocks[j].MinY
			})
			texts := make([]string, len(blocks))
			for i, b := range blocks {
				texts[i] = b.Text
			}
			return &Result{
				Text:   strings.Join(texts, "\n"),
				Blocks: blocks,
			}
		}
		if full.GetText() != "" {
			return &Result{Text: full.GetText()}
		}
	}

	if annotations := resp.GetTextAnnotations(); len(annotations) > 0 {
		return &Result{Text: annotations[0].GetDescription()}
	}

	return &Result{}
}

// collectBlocks walks the page/block/paragraph/word/symbol hierarchy and
// rebuilds each block's text from its symbols.
func collectBlocks(full *visionpb.TextAnnotation) []TextBlock {
	var blocks []TextBlock
	for _, page := range full.GetPages() {
		for _, block := range page.GetBlocks() {
			text := blockText(block)
			if strings.TrimSpace(text) == "" {
				continue
			}
			minY, maxY := blockBounds(block)
			blocks = append(blocks, TextBlock{
				Text: text,
				MinY: minY,
				MaxY: maxY,
			})
		}
	}
	return blocks
}

// blockText concatenates a block's symbols, inserting a space on word-break
// markers and a newline on line-break markers.
func blockText(block *visionpb.Block) string {
	var b strings.Builder
	for _, paragraph := range block.GetParagraphs() {
		for _, word := range paragraph.GetWords() {
			for _, symbol := range word.GetSymbols() {
				b.WriteString(symbol.GetText())
				switch symbol.GetProperty().GetDetectedBreak().GetType() {
				case visionpb.TextAnnotation_DetectedBreak_SPACE,
					visionpb.TextAnnotation_DetectedBreak_SURE_SPACE:
					b.WriteString(" ")
				case visionpb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE,
					visionpb.TextAnnotation_DetectedBreak_LINE_BREAK:
					b.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// blockBounds returns the minimum and maximum Y coordinate among the block's
// bounding polygon vertices.
func blockBounds(block *visionpb.Block) (minY, maxY int) {
	vertices := block.GetBoundingBox().GetVertices()
	if len(vertices) == 0 {
		return 0, 0
	}
	minY = int(vertices[0].GetY())
	maxY = minY
	for _, v := range vertices[1:] {
		y := int(v.GetY())
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return minY, maxY
}
