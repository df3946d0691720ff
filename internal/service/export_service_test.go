package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexgov/cortex-api/internal/models"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
	"github.com/cortexgov/cortex-api/pkg/storage"
)

type fakeExportStore struct {
	controls []models.Control
	trail    []models.AuditEntry
	audit    []models.AuditEntry
}

func (f *fakeExportStore) ListControls(filters models.FilterConfig) []models.Control {
	out := make([]models.Control, 0)
	for _, c := range f.controls {
		if filters.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeExportStore) AuditTrail(entityID string, entityType models.EntityType) []models.AuditEntry {
	return f.trail
}

func (f *fakeExportStore) AppendAudit(e models.AuditEntry) models.AuditEntry {
	f.audit = append(f.audit, e)
	return e
}

func (f *fakeExportStore) GetUser(id string) (models.User, error) {
	if id == "user-1" {
		return models.User{ID: "user-1", Username: "john.smith"}, nil
	}
	return models.User{}, appErrors.ErrNotFound
}

func newTestExportService(t *testing.T, st *fakeExportStore) *ExportService {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(st, local, signer, 50, nil, nil, nil)
}

func exportControls() []models.Control {
	return []models.Control{
		{ID: "c1", Code: "PAY-001", Name: "Payment Authorization Limits", Region: "EMEA",
			MatchStatus: models.MatchMatched, Effectiveness: models.EffectivenessEffective, FinalScore: 92},
		{ID: "c2", Code: "PAY-002", Name: "Daily Payment Reconciliation", Region: "EMEA",
			MatchStatus: models.MatchGap, Effectiveness: models.EffectivenessNeedsImprovement, FinalScore: 58},
		{ID: "c3", Code: "TRD-007", Name: "Trade Surveillance Alert Triage", Region: "AMER",
			MatchStatus: models.MatchResolved, Effectiveness: models.EffectivenessNotRated, FinalScore: 75},
	}
}

func TestExportCreateAndDownloadCSV(t *testing.T) {
	st := &fakeExportStore{controls: exportControls()}
	svc := newTestExportService(t, st)

	result, err := svc.Create(context.Background(), models.ExportRequest{
		Format:  models.ExportFormatCSV,
		Filters: models.FilterConfig{Regions: []string{"EMEA"}},
	}, "user-1", models.RequestMeta{IP: "10.0.0.9"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Filename, "cortex-dashboard-export-"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))
	assert.Equal(t, 2, result.RowCount)
	assert.Greater(t, result.SizeBytes, 0)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	require.Len(t, st.audit, 1)
	assert.Equal(t, models.AuditActionExport, st.audit[0].Action)
	assert.Equal(t, result.ID, st.audit[0].EntityID)

	file, filename, err := svc.Open(context.Background(), result.Token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, result.Filename, filename)

	body, err := io.ReadAll(file)
	require.NoError(t, err)
	content := string(body)
	assert.Contains(t, content, "PAY-001")
	assert.Contains(t, content, "PAY-002")
	assert.NotContains(t, content, "TRD-007", "filtered rows must not leak into the export")
}

func TestExportIncludesAuditTrailWhenRequested(t *testing.T) {
	st := &fakeExportStore{
		controls: exportControls(),
		trail: []models.AuditEntry{
			{Timestamp: time.Now().UTC(), UserID: "user-2", Action: models.AuditActionControlUpdate, EntityType: models.EntityControl, EntityID: "c1"},
		},
	}
	svc := newTestExportService(t, st)

	result, err := svc.Create(context.Background(), models.ExportRequest{
		Format:            models.ExportFormatCSV,
		IncludeAuditTrail: true,
	}, "user-1", models.RequestMeta{})
	require.NoError(t, err)

	file, _, err := svc.Open(context.Background(), result.Token)
	require.NoError(t, err)
	defer file.Close()
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(body), "CONTROL_UPDATED")
}

func TestExportAllFormats(t *testing.T) {
	st := &fakeExportStore{controls: exportControls()}
	svc := newTestExportService(t, st)

	cases := []struct {
		format models.ExportFormat
		ext    string
	}{
		{models.ExportFormatCSV, ".csv"},
		{models.ExportFormatXLSX, ".xlsx"},
		{models.ExportFormatPDF, ".pdf"},
		{models.ExportFormatDeck, ".ppt"},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			result, err := svc.Create(context.Background(), models.ExportRequest{Format: tc.format}, "user-1", models.RequestMeta{})
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(result.Filename, tc.ext))
			assert.Greater(t, result.SizeBytes, 0)
		})
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	st := &fakeExportStore{controls: exportControls()}
	svc := newTestExportService(t, st)

	_, err := svc.Create(context.Background(), models.ExportRequest{Format: "DOCX"}, "user-1", models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, "UNSUPPORTED_FORMAT", appErrors.FromError(err).Code)
	assert.Empty(t, st.audit)
}

func TestExportOpenRejectsBadTokens(t *testing.T) {
	st := &fakeExportStore{controls: exportControls()}
	svc := newTestExportService(t, st)

	_, _, err := svc.Open(context.Background(), "forged-token")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", appErrors.FromError(err).Code)
}
