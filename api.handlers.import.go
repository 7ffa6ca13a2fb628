package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// ImportBooks bulk-loads catalog records from an uploaded csv file sent
// as the `file` field of a multipart form. A rejected format maps to a
// 400 while a structurally corrupt file maps to a 500, so clients can
// tell a fixable upload from one not worth retrying.
func (api *APIHandler) ImportBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)

	r.Body = http.MaxBytesReader(w, r.Body, api.config.Import.MaxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		api.logger.Error("failed to read uploaded file", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "Please select a csv file.", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		api.logger.Error("failed to read uploaded file", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "Please select a csv file.", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	imported, err := api.bookService.ImportBooks(r.Context(), content)
	if errors.Is(err, ErrImportParse) {
		api.logger.Error("failed to import books: corrupt csv content", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to import books from csv file", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to import books", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to import books", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if !imported {
		api.logger.Error("failed to import books: unusable csv content", zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "Error importing books from csv file.", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to import books", zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Books imported successfully.", nil, EmptyData)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// StreamBookEvents pushes one server-sent event to the caller for each
// catalog change broadcast while the connection stays open. Observers
// join and leave here without touching the mutation request cycle.
func (api *APIHandler) StreamBookEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	flusher, ok := w.(http.Flusher)
	if !ok {
		api.logger.Error("streaming unsupported by response writer", zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "streaming unsupported", EmptyData)
		if err := WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, unsubscribe := api.hub.Subscribe()
	defer unsubscribe()
	api.logger.Info("observer subscribed to book events", zap.String("request.id", requestID))

	for {
		select {
		case <-r.Context().Done():
			api.logger.Info("observer left book events stream", zap.String("request.id", requestID))
			return
		case <-events:
			if _, err := fmt.Fprint(w, "event: catalog.changed\ndata: {}\n\n"); err != nil {
				api.logger.Error("failed to push book event", zap.String("request.id", requestID), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}
