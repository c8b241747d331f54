package server

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spacesedan/emotiscope/internal/classifier"
	"github.com/spacesedan/emotiscope/internal/models"
	"github.com/spacesedan/emotiscope/internal/sentiment"
)

const (
	REQUEST_ID_HEADER = "X-Request-ID"
	METHOD_PREDICT    = "predict"
)

// Translator turns text into English. Implementations return the input
// unchanged when they cannot translate it.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

type Server struct {
	classifier classifier.Classifier
	translator Translator
}

func NewServer(c classifier.Classifier, t Translator) *Server {
	return &Server{classifier: c, translator: t}
}

// Router builds the gin engine serving /analyze and /health.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", s.health)
	r.POST("/analyze", s.analyze)
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(REQUEST_ID_HEADER)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(REQUEST_ID_HEADER, requestID)

		start := time.Now()
		c.Next()

		slog.Info("[AnalyzerServer] Request handled",
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("took", time.Since(start)))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", Classifier: s.classifier.Name()})
}

func (s *Server) analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "text is required"})
		return
	}

	resp, err := s.Analyze(c.Request.Context(), req)
	if err != nil {
		slog.Error("[AnalyzerServer] Analysis failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Analyze applies the request options and classifies the resulting text.
func (s *Server) Analyze(ctx context.Context, req models.AnalyzeRequest) (models.AnalyzeResponse, error) {
	text := req.Text
	if req.Options.Translate && s.translator != nil {
		text = s.translator.Translate(ctx, text)
	}
	if req.Options.Normalize {
		text = sentiment.NormalizeText(text)
	}

	chunks := []string{text}
	if req.Options.HandleLongText {
		chunks = SplitIntoChunks(text)
	}

	probs, err := s.classifier.Classify(ctx, chunks)
	if err != nil {
		return models.AnalyzeResponse{}, err
	}
	if len(probs) != len(chunks) {
		return models.AnalyzeResponse{}, fmt.Errorf("[AnalyzerServer] classifier returned %d results for %d chunks", len(probs), len(chunks))
	}
	for i, p := range probs {
		if len(p) != len(classifier.Labels) {
			return models.AnalyzeResponse{}, fmt.Errorf("[AnalyzerServer] chunk %d has %d probabilities, want %d", i, len(p), len(classifier.Labels))
		}
	}

	var chunkResults []models.ChunkResult
	if len(chunks) > 1 {
		slog.Debug("[AnalyzerServer] Text split into chunks", slog.Int("chunks", len(chunks)))
		for i, chunk := range chunks {
			chunkResults = append(chunkResults, models.ChunkResult{
				ChunkIndex:     i,
				TokenCount:     countTokens(chunk),
				PredictedClass: argmax(probs[i]),
				Probabilities:  probs[i],
			})
		}
	}

	avg := averageProbabilities(probs)
	predicted := argmax(avg)

	scores := make(map[string]float64, len(classifier.Labels))
	for i, label := range classifier.Labels {
		scores[label] = roundPercent(avg[i])
	}

	return models.AnalyzeResponse{
		Emotion:      classifier.Labels[predicted],
		Confidence:   roundPercent(avg[predicted]),
		Scores:       scores,
		TokenCount:   countTokens(text),
		ChunkResults: chunkResults,
		Method:       METHOD_PREDICT,
	}, nil
}

// roundPercent converts a probability to a percentage with two decimals.
func roundPercent(p float64) float64 {
	return math.Round(p*100*100) / 100
}
