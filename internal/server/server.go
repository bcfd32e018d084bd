package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/sentify/internal/analysis"
	"github.com/spacesedan/sentify/internal/dataset"
	"github.com/spacesedan/sentify/internal/models"
	"github.com/spacesedan/sentify/internal/report"
)

const DEFAULT_HISTORY_LIMIT = 10

type analyzer interface {
	Analyze(ctx context.Context, product, brand string) (report.Report, error)
	Catalog() *dataset.Catalog
}

type historyStore interface {
	History(ctx context.Context, product, brand string, limit int) ([]models.AnalysisRecord, error)
}

type Server struct {
	echo      *echo.Echo
	analyzer  analyzer
	history   historyStore
	startTime time.Time
}

// NewServer wires the routes. history may be nil, in which case the history
// route answers 404.
func NewServer(a analyzer, history historyStore) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Route on the escaped path so that path params are always escaped and
	// pathParam decodes them exactly once.
	e.Pre(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			req.URL.RawPath = req.URL.EscapedPath()
			return next(c)
		}
	})

	srv := &Server{
		echo:      e,
		analyzer:  a,
		history:   history,
		startTime: time.Now(),
	}
	srv.registerRoutes()
	return srv
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/products", s.handleProducts)
	s.echo.GET("/results/:product/:brand", s.handleResults)
	s.echo.GET("/history/:product/:brand", s.handleHistory)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(addr string) error {
	slog.Info("[Server] Listening", slog.String("addr", addr))
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Seconds(),
	})
}

type productResponse struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
}

func (s *Server) handleProducts(c echo.Context) error {
	catalog := s.analyzer.Catalog()
	products := make([]productResponse, 0, len(catalog.Products))
	for _, key := range catalog.Keys() {
		products = append(products, productResponse{
			Key:         key,
			DisplayName: catalog.Products[key].DisplayName,
		})
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) handleResults(c echo.Context) error {
	product, brand, err := productBrandParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	rep, err := s.analyzer.Analyze(c.Request().Context(), product, brand)
	if err != nil {
		return s.writeError(c, err)
	}

	if c.QueryParam("format") == "html" {
		return c.HTML(http.StatusOK, rep.HTML())
	}
	return c.JSON(http.StatusOK, rep)
}

func (s *Server) handleHistory(c echo.Context) error {
	if s.history == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "history is disabled"})
	}

	product, brand, err := productBrandParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	limit := DEFAULT_HISTORY_LIMIT
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
		}
		limit = n
	}

	records, err := s.history.History(c.Request().Context(), product, brand, limit)
	if err != nil {
		return s.writeError(c, err)
	}
	if records == nil {
		records = []models.AnalysisRecord{}
	}
	return c.JSON(http.StatusOK, records)
}

// productBrandParams returns the decoded product and brand path segments.
func productBrandParams(c echo.Context) (string, string, error) {
	product, err := url.PathUnescape(c.Param("product"))
	if err != nil {
		return "", "", fmt.Errorf("invalid product segment: %w", err)
	}
	brand, err := url.PathUnescape(c.Param("brand"))
	if err != nil {
		return "", "", fmt.Errorf("invalid brand segment: %w", err)
	}
	return product, brand, nil
}

func (s *Server) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, dataset.ErrUnknownProduct):
		return c.JSON(http.StatusNotFound, map[string]string{"error": dataset.ErrUnknownProduct.Error()})
	case errors.Is(err, dataset.ErrNoReviews), errors.Is(err, analysis.ErrNoData):
		return c.JSON(http.StatusNotFound, map[string]string{"error": dataset.ErrNoReviews.Error()})
	default:
		slog.Error("[Server] Request failed",
			slog.String("path", c.Request().URL.Path),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
