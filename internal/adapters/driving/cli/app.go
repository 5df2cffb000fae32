package cli

import (
	"fmt"
	"os"

	"github.com/campus-labs/examchat/internal/adapters/driven/ai"
	configfile "github.com/campus-labs/examchat/internal/adapters/driven/config/file"
	"github.com/campus-labs/examchat/internal/adapters/driven/ocr/tesseract"
	"github.com/campus-labs/examchat/internal/adapters/driven/renderer/mupdf"
	"github.com/campus-labs/examchat/internal/adapters/driven/vectorstore/sqlite"
	"github.com/campus-labs/examchat/internal/chunker"
	"github.com/campus-labs/examchat/internal/core/ports/driven"
	"github.com/campus-labs/examchat/internal/core/services"
	"github.com/campus-labs/examchat/internal/logger"
)

// app holds the assembled service graph for one command invocation.
type app struct {
	cfg      *configfile.Config
	store    *sqlite.Store
	renderer driven.DocumentRenderer
	ocr      driven.OCREngine
	embedder driven.EmbeddingService
	llm      driven.LLMService

	ingestor *services.Ingestor
	index    *services.IndexManager
	chat     *services.Chat
}

// buildApp assembles the full pipeline from configuration. A missing
// source document is not fatal here: ingestion degrades to an empty
// store, and an already persisted index keeps serving.
func buildApp() (*app, error) {
	cfg, err := configfile.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.Index.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening index store: %w", err)
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(cfg.EmbeddingSettings())
	if err != nil {
		store.Close()
		return nil, err
	}

	llm, err := ai.CreateAndValidateLLMService(cfg.LLMSettings())
	if err != nil {
		embedder.Close()
		store.Close()
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		store:    store,
		embedder: embedder,
		llm:      llm,
	}

	if cfg.Document.Path != "" {
		if _, err := os.Stat(cfg.Document.Path); err != nil {
			logger.Warn("Document %s not accessible: %v", cfg.Document.Path, err)
		} else {
			renderer, err := mupdf.Open(cfg.Document.Path)
			if err != nil {
				logger.Warn("Opening document failed: %v", err)
			} else {
				a.renderer = renderer
			}
		}
	}

	if a.renderer != nil {
		engine, err := tesseract.New(cfg.Document.OCRLanguage)
		if err != nil {
			logger.Warn("OCR engine unavailable: %v", err)
		} else {
			a.ocr = engine
		}
	}

	extractor := services.NewExtractor(a.renderer, a.ocr)
	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Index.ChunkSize),
		chunker.WithOverlap(cfg.Index.ChunkOverlap),
	)
	a.ingestor = services.NewIngestor(extractor, splitter, llm, embedder, store)
	a.index = services.NewIndexManager(a.ingestor)

	retriever := services.NewRetriever(store, embedder)
	responder := services.NewResponder(llm, cfg.LLM.Temperature)
	a.chat = services.NewChat(retriever, responder)

	return a, nil
}

// Close releases all resources in reverse construction order.
func (a *app) Close() {
	if a.ocr != nil {
		a.ocr.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.llm != nil {
		a.llm.Close()
	}
	if a.embedder != nil {
		a.embedder.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
