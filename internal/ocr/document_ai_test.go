package ocr

import (
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// Both backends must satisfy the detector contract.
var (
	_ TextDetector = (*DocumentAIDetector)(nil)
	_ TextDetector = (*GoogleVisionDetector)(nil)
)

func TestDocumentAIDetectorCloseWithoutClient(t *testing.T) {
	d := &DocumentAIDetector{}
	if err := d.Close(); err != nil {
		t.Fatalf("Close on a client-less detector must be a no-op, got %v", err)
	}
}

func layoutBlock(start, end int64, minY, maxY int32) *documentaipb.Document_Page_Block {
	return &documentaipb.Document_Page_Block{
		Layout: &documentaipb.Document_Page_Layout{
			TextAnchor: &documentaipb.Document_TextAnchor{
				TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
					{StartIndex: start, EndIndex: end},
				},
			},
			BoundingPoly: &documentaipb.BoundingPoly{
				Vertices: []*documentaipb.Vertex{
					{X: 0, Y: minY},
					{X: 100, Y: maxY},
				},
			},
		},
	}
}

func TestReduceDocumentBlocks(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "Corner Store\nTotal $12.99\n",
		Pages: []*documentaipb.Document_Page{{
			Blocks: []*documentaipb.Document_Page_Block{
				// Out of vertical order on purpose.
				layoutBlock(13, 26, 200, 260),
				layoutBlock(0, 13, 10, 90),
			},
		}},
	}

	res := reduceDocument(doc)
	if len(res.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(res.Blocks))
	}
	if res.Blocks[0].Text != "Corner Store" || res.Blocks[0].MinY != 10 {
		t.Fatalf("blocks not sorted by minY: %+v", res.Blocks[0])
	}
	if res.Text != "Corner Store\nTotal $12.99" {
		t.Fatalf("joined text: %q", res.Text)
	}
}

func TestReduceDocumentFlatFallback(t *testing.T) {
	doc := &documentaipb.Document{Text: "flat only"}

	res := reduceDocument(doc)
	if res.Text != "flat only" || len(res.Blocks) != 0 {
		t.Fatalf("expected flat fallback, got %+v", res)
	}
}
