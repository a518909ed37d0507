package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// API exposes the file-sharing endpoints.
type API struct {
	registry *Registry
	store    *Store
}

func NewAPI(registry *Registry, store *Store) *API {
	return &API{
		registry: registry,
		store:    store,
	}
}

func (a *API) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.POST("/upload", a.uploadFiles)
	api.GET("/files", a.listFiles)
	api.DELETE("/files/:id", a.deleteFile)
	api.GET("/download/:filename", a.downloadFile)
	api.GET("/health", a.health)
	api.GET("/stats", a.stats)
}

// corsMiddleware allows any origin. The service carries no access policy of
// its own.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// uploadFiles consumes a multipart request part by part, streaming each
// part to disk as it arrives. A request with zero file parts succeeds with
// an empty list. The first failing part aborts the request; parts already
// completed keep their files and records.
func (a *API) uploadFiles(c *gin.Context) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected multipart/form-data"})
		return
	}

	uploaded := []FileRecord{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to read upload stream: %v", err)})
			return
		}

		record, err := a.savePart(part)
		part.Close()
		if err != nil {
			if errors.Is(err, ErrFileTooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("File too large (max %d bytes)", a.store.maxSize)})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		uploaded = append(uploaded, record)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "files": uploaded})
}

// savePart writes one multipart part to disk and registers it. Parts
// without a filename (plain form fields included) get a synthesized name.
func (a *API) savePart(part *multipart.Part) (FileRecord, error) {
	name := SanitizeFilename(part.FileName())
	if name == "" {
		name = "upload_" + uuid.New().String()
	}
	id := uuid.New().String()

	dst, finalName, err := a.store.Create(name, id)
	if err != nil {
		return FileRecord{}, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := a.store.WriteStream(dst, part)
	if err != nil {
		return FileRecord{}, err
	}

	record := FileRecord{
		ID:         id,
		Name:       finalName,
		Size:       size,
		MimeType:   guessMimeType(finalName),
		UploadedAt: time.Now().UTC(),
	}
	a.registry.InsertFront(record)

	if err := LogTransfer("upload", record.ID, record.Name, record.Size); err != nil {
		log.Printf("Failed to record upload in transfer log: %v", err)
	}

	return record, nil
}

func (a *API) listFiles(c *gin.Context) {
	c.JSON(http.StatusOK, a.registry.Snapshot())
}

func (a *API) deleteFile(c *gin.Context) {
	id := c.Param("id")

	record, ok := a.registry.Remove(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	// Best effort: a missing backing file must not block removing the entry.
	if err := a.store.Remove(record.Name); err != nil {
		log.Printf("Failed to delete %s from disk: %v", record.Name, err)
	}

	if err := LogTransfer("delete", record.ID, record.Name, record.Size); err != nil {
		log.Printf("Failed to record delete in transfer log: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// downloadFile serves a file by name, not by id. The asymmetry with delete
// is part of the public contract.
func (a *API) downloadFile(c *gin.Context) {
	filename := c.Param("filename")

	if filename == "" || filename == "." || filename == ".." || strings.ContainsAny(filename, "/\\") {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	f, info, err := a.store.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		}
		return
	}
	defer f.Close()

	c.Header("Content-Type", guessMimeType(filename))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Length", strconv.FormatInt(info.Size(), 10))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, f); err != nil {
		log.Printf("Failed to send %s: %v", filename, err)
		return
	}

	if err := LogTransfer("download", "", filename, info.Size()); err != nil {
		log.Printf("Failed to record download in transfer log: %v", err)
	}
}

func (a *API) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "files": a.registry.Len()})
}

func (a *API) stats(c *gin.Context) {
	files := a.registry.Snapshot()
	var totalSize int64
	for _, f := range files {
		totalSize += f.Size
	}

	recent, err := RecentTransfers(20)
	if err != nil {
		log.Printf("Failed to read transfer log: %v", err)
	}
	if recent == nil {
		recent = []TransferEvent{}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalFiles":      len(files),
		"totalSize":       totalSize,
		"recentTransfers": recent,
	})
}
