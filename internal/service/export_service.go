package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
	"github.com/noah-isme/arms-api/internal/repository"
	"github.com/noah-isme/arms-api/internal/timetable"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
	"github.com/noah-isme/arms-api/pkg/export"
	"github.com/noah-isme/arms-api/pkg/jobs"
	"github.com/noah-isme/arms-api/pkg/storage"
)

type exportJobStore interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportDownload aggregates resolved download data.
type ExportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ExportFormat
	ExpiresAt time.Time
}

// ExportService renders section schedules to CSV or PDF through a background
// job queue and serves the signed download links.
type ExportService struct {
	repo      exportJobStore
	schedules scheduleStore
	storage   fileStorage
	queue     jobDispatcher
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(
	repo exportJobStore,
	schedules scheduleStore,
	fileStore fileStorage,
	queue jobDispatcher,
	signer *storage.SignedURLSigner,
	cfg ExportConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		repo:      repo,
		schedules: schedules,
		storage:   fileStore,
		queue:     queue,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		signer:    signer,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// CreateJob validates the request, persists the job and enqueues processing.
func (s *ExportService) CreateJob(ctx context.Context, req dto.ExportScheduleRequest) (*dto.ExportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if _, err := s.schedules.FindByID(ctx, req.ScheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	job := &models.ExportJob{
		ScheduleID: req.ScheduleID,
		Format:     models.ExportFormat(req.Format),
		Status:     models.ExportStatusQueued,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "schedule-export"}); err != nil {
		s.markFailed(ctx, job.ID, "failed to enqueue job")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return s.response(job), nil
}

// GetStatus exposes job metadata to clients.
func (s *ExportService) GetStatus(ctx context.Context, id string) (*dto.ExportJobResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return s.response(job), nil
}

// Process is the queue handler: it renders the schedule and stores the file.
func (s *ExportService) Process(ctx context.Context, queued jobs.Job) error {
	job, err := s.repo.GetByID(ctx, queued.ID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", queued.ID, err)
	}
	if job.Status == models.ExportStatusDone {
		return nil
	}

	processing := models.ExportStatusProcessing
	if err := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &processing}); err != nil {
		return fmt.Errorf("mark export job processing: %w", err)
	}

	schedule, err := s.schedules.FindByID(ctx, job.ScheduleID)
	if err != nil {
		s.markFailed(ctx, job.ID, "schedule no longer exists")
		return nil
	}
	dataset, title, err := s.buildDataset(schedule)
	if err != nil {
		s.markFailed(ctx, job.ID, err.Error())
		return nil
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		s.markFailed(ctx, job.ID, err.Error())
		return nil
	}

	filename := s.buildFilename(schedule, job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.markFailed(ctx, job.ID, "failed to store export file")
		return fmt.Errorf("save export file: %w", err)
	}
	token, _, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.markFailed(ctx, job.ID, "failed to sign download link")
		return fmt.Errorf("sign export url: %w", err)
	}

	done := models.ExportStatusDone
	now := time.Now().UTC()
	return s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{
		Status:     &done,
		FilePath:   &relPath,
		Token:      &token,
		FinishedAt: &now,
	})
}

// ResolveDownload validates a signed token and opens the stored file.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	jobID, relPath, expiresAt, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	if job.Status != models.ExportStatusDone {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "export is not finished")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return &ExportDownload{
		File:      file,
		Filename:  relPath,
		Format:    job.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// Cleanup deletes finished job files older than the configured TTL.
func (s *ExportService) Cleanup(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.cfg.ResultTTL)
	stale, err := s.repo.ListFinishedBefore(ctx, cutoff, 100)
	if err != nil {
		s.logger.Warn("export cleanup query failed", zap.Error(err))
		return
	}
	for _, job := range stale {
		if job.FilePath == "" {
			continue
		}
		if err := s.storage.Delete(job.FilePath); err != nil {
			s.logger.Warn("export cleanup delete failed", zap.String("path", job.FilePath), zap.Error(err))
		}
	}
	if removed, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("export storage sweep failed", zap.Error(err))
	} else if len(removed) > 0 {
		s.logger.Info("export storage swept", zap.Int("removed", len(removed)))
	}
}

func (s *ExportService) markFailed(ctx context.Context, id, message string) {
	failed := models.ExportStatusFailed
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, id, repository.UpdateExportJobParams{
		Status:       &failed,
		ErrorMessage: &message,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Warn("failed to mark export job failed", zap.String("id", id), zap.Error(err))
	}
}

func (s *ExportService) response(job *models.ExportJob) *dto.ExportJobResponse {
	resp := &dto.ExportJobResponse{
		JobID:  job.ID,
		Status: string(job.Status),
		Format: string(job.Format),
		Error:  job.ErrorMessage,
	}
	if job.Status == models.ExportStatusDone && job.Token != "" {
		prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
		if prefix == "" {
			prefix = "/api/v1"
		}
		resp.DownloadURL = fmt.Sprintf("%s/export/download/%s", prefix, job.Token)
	}
	return resp
}

// buildDataset flattens the schedule grid into a tabular dataset ordered by
// day then start time.
func (s *ExportService) buildDataset(schedule *models.SectionSchedule) (export.Dataset, string, error) {
	grid, err := decodeGrid(schedule)
	if err != nil {
		return export.Dataset{}, "", err
	}

	type row struct {
		key   timetable.SlotKey
		entry timetable.Entry
	}
	var rows []row
	for key, entry := range grid.Entries() {
		rows = append(rows, row{key: key, entry: entry})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].key.Day != rows[j].key.Day {
			return rows[i].key.Day < rows[j].key.Day
		}
		return rows[i].key.Index < rows[j].key.Index
	})

	headers := []string{"Day", "Start", "End", "Subject", "Room", "Professor", "Substitute"}
	dataRows := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		start, _ := timetable.LabelAt(r.key.Index)
		dataRows = append(dataRows, map[string]string{
			"Day":        r.key.Day.String(),
			"Start":      start,
			"End":        r.entry.EndTime,
			"Subject":    r.entry.Subject,
			"Room":       r.entry.Room,
			"Professor":  r.entry.Professor,
			"Substitute": r.entry.Substitute,
		})
	}

	title := fmt.Sprintf("%s Schedule %s %s", schedule.SectionName, schedule.Semester, schedule.SchoolYear)
	return export.Dataset{Headers: headers, Rows: dataRows}, title, nil
}

func (s *ExportService) buildFilename(schedule *models.SectionSchedule, job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	section := sanitizeFilename(schedule.SectionName)
	return fmt.Sprintf("schedule_%s_%s.%s", section, timestamp, job.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
