package ws

import "github.com/campus-labs/examchat/internal/core/domain"

// Preview lengths for context and visualization payloads.
const (
	contextPreviewLen = 300
	vizPreviewLen     = 150
)

// confidenceMetrics are simulated scores derived deterministically
// from the retrieved document count. They are presentation data, not
// model output.
type confidenceMetrics struct {
	Relevance    int `json:"relevance"`
	Accuracy     int `json:"accuracy"`
	Completeness int `json:"completeness"`
	Coherence    int `json:"coherence"`
	Conciseness  int `json:"conciseness"`
}

// contextItem is a truncated retrieved chunk with its metadata echo.
type contextItem struct {
	Text     string           `json:"text"`
	Metadata domain.ChunkMeta `json:"metadata"`
}

// vizItem is one entry in the hierarchical visualization payload.
type vizItem struct {
	Text     string           `json:"text"`
	Score    float64          `json:"score"`
	Metadata domain.ChunkMeta `json:"metadata"`
}

// visualizationData distinguishes summary-level and chunk-level items
// with synthetic relevance scores.
type visualizationData struct {
	Query     string    `json:"query"`
	Summaries []vizItem `json:"summaries"`
	Chunks    []vizItem `json:"chunks"`
}

// buildConfidence derives simulated metrics from the document count.
func buildConfidence(docCount int) *confidenceMetrics {
	return &confidenceMetrics{
		Relevance:    min(95, 70+docCount*10),
		Accuracy:     min(90, 65+docCount*10),
		Completeness: min(85, 60+docCount*10),
		Coherence:    88,
		Conciseness:  92,
	}
}

// buildContext truncates each retrieved chunk to a preview.
func buildContext(docs []domain.RetrievedDoc) []contextItem {
	items := make([]contextItem, len(docs))
	for i, doc := range docs {
		items[i] = contextItem{
			Text:     preview(doc.Text, contextPreviewLen),
			Metadata: doc.Metadata,
		}
	}
	return items
}

// buildVisualization builds the two-level payload: the top two docs as
// summary-level items, all docs as chunk-level items.
func buildVisualization(query string, docs []domain.RetrievedDoc) *visualizationData {
	viz := &visualizationData{
		Query:     query,
		Summaries: []vizItem{},
		Chunks:    []vizItem{},
	}

	for i, doc := range docs {
		if i < 2 {
			viz.Summaries = append(viz.Summaries, vizItem{
				Text:     preview(doc.Text, vizPreviewLen),
				Score:    0.85 - float64(i)*0.1,
				Metadata: doc.Metadata,
			})
		}
		viz.Chunks = append(viz.Chunks, vizItem{
			Text:     preview(doc.Text, vizPreviewLen),
			Score:    0.95 - float64(i)*0.05,
			Metadata: doc.Metadata,
		})
	}
	return viz
}

// preview truncates text to limit characters with an ellipsis suffix.
func preview(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
