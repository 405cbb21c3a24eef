package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"docscan/internal/logger"
	"docscan/internal/pipeline"
)

const homeMessage = "OCR API running (EasyOCR + Tesseract + PaddleOCR)"

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": homeMessage})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"activeRequests": s.activeRequests.Load(),
		"totalRequests":  s.totalRequests.Load(),
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxImageBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, "Image exceeds size limit")
			return
		}
		writeErr(w, http.StatusBadRequest, "Image is required")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "Could not read image")
		return
	}

	ctx := r.Context()
	if s.cfg.ProcessTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ProcessTimeout)
		defer cancel()
	}

	report, err := s.processor.Process(ctx, imageData, header.Filename)
	if err != nil {
		if errors.Is(err, pipeline.ErrMissingImage) {
			writeErr(w, http.StatusBadRequest, "Image is required")
			return
		}
		logger.Error("processing failed", "file", sanitizeLogString(header.Filename), "error", err)
		writeErr(w, http.StatusInternalServerError, "Processing failed")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
