package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cortexgov/cortex-api/internal/models"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
	"github.com/cortexgov/cortex-api/pkg/export"
)

const exportFilenamePrefix = "cortex-dashboard-export"

type exportStore interface {
	ListControls(filters models.FilterConfig) []models.Control
	AuditTrail(entityID string, entityType models.EntityType) []models.AuditEntry
	AppendAudit(e models.AuditEntry) models.AuditEntry
	GetUser(id string) (models.User, error)
}

// ArtifactStorage persists rendered export documents.
type ArtifactStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

// DownloadSigner issues and validates signed download tokens.
type DownloadSigner interface {
	Generate(exportID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error)
}

// exporter is the common render seam the four formats share.
type exporter interface {
	Render(b export.Bundle) ([]byte, error)
}

// ExportService renders dashboard snapshots into downloadable documents and
// records every generation on the audit trail.
type ExportService struct {
	store     exportStore
	storage   ArtifactStorage
	signer    DownloadSigner
	exporters map[models.ExportFormat]exporter
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with all format renderers.
func NewExportService(st exportStore, storage ArtifactStorage, signer DownloadSigner, deckRowLimit int, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExportService{
		store:   st,
		storage: storage,
		signer:  signer,
		exporters: map[models.ExportFormat]exporter{
			models.ExportFormatCSV:  export.NewCSVExporter(),
			models.ExportFormatXLSX: export.NewXLSXExporter(),
			models.ExportFormatPDF:  export.NewPDFExporter(),
			models.ExportFormatDeck: export.NewDeckExporter(deckRowLimit),
		},
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create renders the requested export, stores the artifact and returns a
// signed download token.
func (s *ExportService) Create(ctx context.Context, req models.ExportRequest, actingUserID string, meta models.RequestMeta) (*models.ExportResult, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, "unsupported export format")
	}
	renderer, ok := s.exporters[req.Format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "")
	}

	generatedAt := s.now()
	controls := s.store.ListControls(req.Filters)
	bundle := s.buildBundle(req, controls, actingUserID, generatedAt)

	start := time.Now()
	data, err := renderer.Render(bundle)
	if err != nil {
		s.metrics.RecordExport(string(req.Format), false, 0)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "export rendering failed")
	}
	s.metrics.RecordExport(string(req.Format), true, time.Since(start))

	exportID := uuid.NewString()
	filename := fmt.Sprintf("%s-%s.%s", exportFilenamePrefix, generatedAt.Format("2006-01-02"), formatExtension(req.Format))
	relPath := fmt.Sprintf("%s/%s-%s", generatedAt.Format("2006/01"), exportID, filename)

	if _, err := s.storage.Save(relPath, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}

	s.store.AppendAudit(models.AuditEntry{
		UserID:     actingUserID,
		Action:     models.AuditActionExport,
		EntityType: models.EntitySystem,
		EntityID:   exportID,
		Reason:     fmt.Sprintf("%s export, %d controls", req.Format, len(controls)),
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	})
	s.logger.Info("export generated",
		zap.String("export_id", exportID),
		zap.String("format", string(req.Format)),
		zap.Int("controls", len(controls)),
		zap.Int("bytes", len(data)))

	return &models.ExportResult{
		ID:          exportID,
		Filename:    filename,
		Format:      req.Format,
		SizeBytes:   len(data),
		RowCount:    len(controls),
		Token:       token,
		ExpiresAt:   expiresAt,
		GeneratedAt: generatedAt,
	}, nil
}

// Open validates a download token and returns the stored artifact along with
// its public filename.
func (s *ExportService) Open(ctx context.Context, token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export no longer available")
	}
	name := relPath
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		name = relPath[i+1:]
	}
	// strip the export-id prefix added for uniqueness on disk
	if i := strings.Index(name, exportFilenamePrefix); i > 0 {
		name = name[i:]
	}
	return file, name, nil
}

func (s *ExportService) buildBundle(req models.ExportRequest, controls []models.Control, actingUserID string, generatedAt time.Time) export.Bundle {
	generatedBy := actingUserID
	if user, err := s.store.GetUser(actingUserID); err == nil {
		generatedBy = user.Username
	}

	bundle := export.Bundle{
		Title:       "Cortex Control Dashboard",
		GeneratedAt: generatedAt,
		GeneratedBy: generatedBy,
		Filters:     describeFilters(req.Filters),
		Summary:     summarize(models.Aggregate(controls)),
		Controls:    controlDataset(controls),
	}
	if req.IncludeAuditTrail {
		audit := auditDataset(s.store.AuditTrail("", ""))
		bundle.Audit = &audit
	}
	return bundle
}

var controlHeaders = []string{
	"Code", "Name", "Hierarchy", "Business Line", "Function", "Location", "Region",
	"Control Type", "Frequency", "Automation", "Effectiveness", "CORA Match",
	"Final Score", "Owner", "Assigned To", "Status",
}

func controlDataset(controls []models.Control) export.Dataset {
	rows := make([]map[string]string, 0, len(controls))
	for _, c := range controls {
		rows = append(rows, map[string]string{
			"Code":          c.Code,
			"Name":          c.Name,
			"Hierarchy":     string(c.HierarchyLevel),
			"Business Line": c.BusinessLine,
			"Function":      c.Function,
			"Location":      c.Location,
			"Region":        c.Region,
			"Control Type":  string(c.ControlType),
			"Frequency":     c.Frequency,
			"Automation":    string(c.AutomationType),
			"Effectiveness": string(c.Effectiveness),
			"CORA Match":    string(c.MatchStatus),
			"Final Score":   strconv.Itoa(c.FinalScore),
			"Owner":         c.Owner,
			"Assigned To":   c.AssignedTo,
			"Status":        string(c.Status),
		})
	}
	return export.Dataset{Headers: controlHeaders, Rows: rows}
}

func auditDataset(entries []models.AuditEntry) export.Dataset {
	headers := []string{"Timestamp", "User", "Action", "Entity Type", "Entity", "Reason"}
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]string{
			"Timestamp":   e.Timestamp.Format(time.RFC3339),
			"User":        e.UserID,
			"Action":      e.Action,
			"Entity Type": string(e.EntityType),
			"Entity":      e.EntityID,
			"Reason":      e.Reason,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func summarize(m models.DashboardMetrics) []export.KV {
	return []export.KV{
		{Key: "Total Controls", Value: strconv.Itoa(m.TotalControls)},
		{Key: "CORA Match - Gap", Value: strconv.Itoa(m.MatchStatus.Gap)},
		{Key: "CORA Match - Unmatched", Value: strconv.Itoa(m.MatchStatus.Unmatched)},
		{Key: "CORA Match - Matched", Value: strconv.Itoa(m.MatchStatus.Matched)},
		{Key: "CORA Match - Resolved", Value: strconv.Itoa(m.MatchStatus.Resolved)},
		{Key: "Effective", Value: strconv.Itoa(m.Effectiveness.Effective)},
		{Key: "Ineffective", Value: strconv.Itoa(m.Effectiveness.Ineffective)},
		{Key: "Needs Improvement", Value: strconv.Itoa(m.Effectiveness.NeedsImprovement)},
		{Key: "Not Rated", Value: strconv.Itoa(m.Effectiveness.NotRated)},
		{Key: "Manual", Value: strconv.Itoa(m.Automation.Manual)},
		{Key: "Semi-Automated", Value: strconv.Itoa(m.Automation.SemiAutomated)},
		{Key: "IT Dependent", Value: strconv.Itoa(m.Automation.ITDependent)},
		{Key: "Automated", Value: strconv.Itoa(m.Automation.Automated)},
	}
}

func describeFilters(f models.FilterConfig) []export.KV {
	var out []export.KV
	add := func(key string, values []string) {
		if len(values) > 0 {
			out = append(out, export.KV{Key: key, Value: strings.Join(values, ", ")})
		}
	}
	add("Location", f.Locations)
	add("Business Line", f.BusinessLines)
	add("Function", f.Functions)
	add("Control Type", f.ControlTypes)
	add("Frequency", f.Frequencies)
	add("Automation", f.AutomationTypes)
	add("Effectiveness", f.Effectiveness)
	add("CORA Match", f.MatchStatuses)
	add("Owner", f.Owners)
	add("Region", f.Regions)
	if f.CreatedFrom != nil {
		out = append(out, export.KV{Key: "Created From", Value: f.CreatedFrom.Format("2006-01-02")})
	}
	if f.CreatedTo != nil {
		out = append(out, export.KV{Key: "Created To", Value: f.CreatedTo.Format("2006-01-02")})
	}
	return out
}

func formatExtension(format models.ExportFormat) string {
	switch format {
	case models.ExportFormatXLSX:
		return "xlsx"
	case models.ExportFormatPDF:
		return "pdf"
	case models.ExportFormatDeck:
		return "ppt"
	default:
		return "csv"
	}
}
