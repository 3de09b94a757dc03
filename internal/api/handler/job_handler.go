package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finparse/statement-parser/internal/api/domain"
	"github.com/finparse/statement-parser/internal/api/dto"
	"github.com/finparse/statement-parser/internal/api/model"
)

// SubmitStatement handles POST /api/v1/statements
// Admits a statement document and enqueues it for asynchronous parsing
func (h *JobHandler) SubmitStatement(c *gin.Context) {
	h.logger.Info("SubmitStatement called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	// 1. Read the uploaded file, bounded by the configured size limit
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.logger.Warn("Upload exceeds size limit",
				slog.Int64("limit_bytes", h.maxUploadBytes),
			)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "file exceeds the upload size limit",
			})
			return
		}
		h.logger.Error("Missing or unreadable file field", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "multipart field 'file' is required",
		})
		return
	}
	defer file.Close()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "file exceeds the upload size limit",
		})
		return
	}

	document, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "failed to read uploaded file",
		})
		return
	}
	if len(document) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "uploaded file is empty",
		})
		return
	}
	// Magic-byte sniff instead of trusting the client's content type; the
	// worker validates the full structure later.
	if !bytes.HasPrefix(document, []byte("%PDF-")) {
		h.logger.Warn("Rejected non-PDF upload",
			slog.String("filename", header.Filename),
			slog.Int("document_bytes", len(document)),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "uploaded file is not a PDF",
		})
		return
	}

	// 2. Create the PENDING job row; only state lives in the database
	now := time.Now()
	job := model.Job{
		JobID:     uuid.New().String(),
		Status:    domain.JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.storage.CreateJob(c.Request.Context(), &job); err != nil {
		h.logger.Error("Failed to create job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create job",
		})
		return
	}

	// 3. Publish the job with the document in the message body
	body, err := json.Marshal(dto.JobMessage{
		JobID:    job.JobID,
		Document: document,
	})
	if err != nil {
		h.logger.Error("Failed to marshal job message", slog.String("error", err.Error()))
		h.rollbackJob(c, job.JobID)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to enqueue job",
		})
		return
	}

	if err := h.publisher.PublishWithRetry(c.Request.Context(), body, "application/json"); err != nil {
		// A PENDING row with no message behind it would never be picked up
		h.logger.Error("Failed to publish job message",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()),
		)
		h.rollbackJob(c, job.JobID)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "failed to enqueue job, try again later",
		})
		return
	}

	h.logger.Info("Statement admitted",
		slog.String("job_id", job.JobID),
		slog.Int("document_bytes", len(document)),
	)

	// 4. Acknowledge with the job id for status polling
	c.JSON(http.StatusAccepted, dto.SubmitResponse{
		JobID:  job.JobID,
		Status: job.Status,
	})
}

// GetStatement handles GET /api/v1/statements/:job_id
// Reports the job's current state, with result or error once terminal
func (h *JobHandler) GetStatement(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("GetStatement called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	// 1. Validate job_id format (UUID)
	if _, err := uuid.Parse(jobID); err != nil {
		h.logger.Warn("Invalid job_id format", slog.String("job_id", jobID))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return
	}

	// 2. Query job from database
	job, err := h.storage.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "job not found",
			})
			return
		}
		h.logger.Error("Failed to get job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to get job",
		})
		return
	}

	// 3. Return job state
	c.JSON(http.StatusOK, buildStatusResponse(job))
}

// buildStatusResponse maps a job row to the status DTO. A SUCCESS job carries
// provider and result; a FAILED job carries the error entry; neither carries
// the other's fields.
func buildStatusResponse(job *model.Job) dto.StatusResponse {
	resp := dto.StatusResponse{
		JobID:     job.JobID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
	}

	if job.CompletedAt.Valid {
		resp.CompletedAt = job.CompletedAt.Time.Format(time.RFC3339)
	}
	if job.StartedAt.Valid && job.CompletedAt.Valid {
		ms := job.CompletedAt.Time.Sub(job.StartedAt.Time).Milliseconds()
		resp.ProcessingTimeMs = &ms
	}

	switch job.Status {
	case domain.JobStatusSuccess:
		if job.Provider.Valid {
			resp.Provider = job.Provider.String
		}
		resp.Result = json.RawMessage(job.Result)
	case domain.JobStatusFailed:
		resp.Error = &dto.ErrorDTO{
			Kind:    job.ErrorKind.String,
			Message: job.ErrorMessage.String,
		}
	}

	return resp
}

func (h *JobHandler) rollbackJob(c *gin.Context, jobID string) {
	if err := h.storage.DeleteJob(c.Request.Context(), jobID); err != nil {
		h.logger.Error("Failed to roll back job row",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}
}
