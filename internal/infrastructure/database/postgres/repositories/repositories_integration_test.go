//go:build integration

// Integration tests for the PostgreSQL repositories.  They require Docker
// and are gated behind the "integration" build tag.
package repositories_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hukumtek/LexIntel/internal/domain/analysis"
	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/domain/document"
	"github.com/hukumtek/LexIntel/internal/infrastructure/database/postgres/repositories"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// startPostgres launches a PostgreSQL 16 container, applies the schema
// migration, and returns a connected pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "lexintel_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/lexintel_test?sslmode=disable", host, port.Port())
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	ddl, err := os.ReadFile("../../../../../migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(ddl))
	require.NoError(t, err)

	return pool
}

func seedVersion(t *testing.T, pool *pgxpool.Pool) *document.DocumentVersion {
	t.Helper()
	ctx := context.Background()
	repo := repositories.NewDocumentRepository(pool, logging.NewNopLogger())

	doc, err := document.NewDocument("UU Sistem Pendidikan Nasional", common.KindLaw, "ID", "id")
	require.NoError(t, err)
	require.NoError(t, repo.CreateDocument(ctx, doc))

	v, err := document.NewVersion(doc.ID, "2003")
	require.NoError(t, err)
	require.NoError(t, repo.CreateVersion(ctx, v))
	return v
}

func mkStoredClause(versionID uuid.UUID, seq int, ref string) *clause.Clause {
	return &clause.Clause{
		ID:            uuid.New(),
		VersionID:     versionID,
		Ref:           ref,
		Type:          common.ClausePasal,
		Text:          "Isi " + ref,
		PageFrom:      1,
		PageTo:        1,
		SequenceOrder: seq,
		AncestorRefs:  []string{"BAB I"},
		CreatedAt:     time.Now().UTC(),
	}
}

func TestDocumentRepositoryRoundtrip(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	repo := repositories.NewDocumentRepository(pool, logging.NewNopLogger())

	doc, err := document.NewDocument("Peraturan Pemerintah Uji", common.KindRegulation, "ID", "id")
	require.NoError(t, err)
	require.NoError(t, repo.CreateDocument(ctx, doc))

	got, err := repo.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Kind, got.Kind)

	doc.UpdateMetadata("Peraturan Pemerintah Uji (Revisi)", "ID")
	require.NoError(t, repo.UpdateDocument(ctx, doc))

	docs, total, err := repo.ListDocuments(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, docs, 1)
	assert.Equal(t, "Peraturan Pemerintah Uji (Revisi)", docs[0].Title)

	_, err = repo.GetDocument(ctx, uuid.New())
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentNotFound))
}

func TestVersionStatusPersistence(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	repo := repositories.NewDocumentRepository(pool, logging.NewNopLogger())

	v := seedVersion(t, pool)
	require.NoError(t, v.Transition(common.StatusExtracting))
	v.PageCount = 12
	require.NoError(t, repo.UpdateVersionStatus(ctx, v))

	got, err := repo.GetVersion(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, common.StatusExtracting, got.Status)
	assert.Equal(t, 12, got.PageCount)

	versions, err := repo.ListVersions(ctx, v.DocumentID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestClauseRepositoryAppendOnly(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	repo := repositories.NewClauseRepository(pool, logging.NewNopLogger())

	v := seedVersion(t, pool)
	clauses := []*clause.Clause{
		mkStoredClause(v.ID, 1, "Pasal 1"),
		mkStoredClause(v.ID, 2, "Pasal 2"),
	}
	require.NoError(t, repo.CreateClauses(ctx, v.ID, clauses))

	// second insert for the same version must fail, never overwrite
	err := repo.CreateClauses(ctx, v.ID, []*clause.Clause{mkStoredClause(v.ID, 3, "Pasal 3")})
	assert.True(t, errors.IsCode(err, errors.ErrCodeVersionAlreadySegmented))

	got, err := repo.ListByVersion(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Pasal 1", got[0].Ref)
	assert.Equal(t, []string{"BAB I"}, got[0].AncestorRefs)

	n, err := repo.CountByVersion(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEmbeddingRoundtrip(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	repo := repositories.NewClauseRepository(pool, logging.NewNopLogger())

	v := seedVersion(t, pool)
	c1 := mkStoredClause(v.ID, 1, "Pasal 1")
	c2 := mkStoredClause(v.ID, 2, "Pasal 2")
	require.NoError(t, repo.CreateClauses(ctx, v.ID, []*clause.Clause{c1, c2}))

	embs := []*clause.Embedding{
		{ClauseID: c2.ID, VersionID: v.ID, Vector: []float32{0.4, 0.5, 0.6}, Dimension: 3, Model: "m1", CreatedAt: time.Now().UTC()},
		{ClauseID: c1.ID, VersionID: v.ID, Vector: []float32{0.1, 0.2, 0.3}, Dimension: 3, Model: "m1", CreatedAt: time.Now().UTC()},
	}
	require.NoError(t, repo.CreateEmbeddings(ctx, embs))

	got, err := repo.ListEmbeddings(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// ordered by the owning clause's sequence, not insert order
	assert.Equal(t, c1.ID, got[0].ClauseID)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got[0].Vector)
}

func TestAnalysisRepositoryLatestWins(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	docRepo := repositories.NewDocumentRepository(pool, logging.NewNopLogger())
	repo := repositories.NewAnalysisRepository(pool, logging.NewNopLogger())

	from := seedVersion(t, pool)
	to, err := document.NewVersion(from.DocumentID, "2023")
	require.NoError(t, err)
	require.NoError(t, docRepo.CreateVersion(ctx, to))

	payload, _ := json.Marshal(map[string]any{"changes": []any{}})

	older := &analysis.ComparisonRecord{
		ID: uuid.New(), FromVersionID: from.ID, ToVersionID: to.ID,
		Result: payload, TotalChanges: 3, ConfidenceScore: 0.7,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	newer := &analysis.ComparisonRecord{
		ID: uuid.New(), FromVersionID: from.ID, ToVersionID: to.ID,
		Result: payload, TotalChanges: 5, ConfidenceScore: 0.9,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.SaveComparison(ctx, older))
	require.NoError(t, repo.SaveComparison(ctx, newer))

	got, err := repo.GetComparison(ctx, from.ID, to.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.TotalChanges)

	_, err = repo.GetComparison(ctx, to.ID, from.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeComparisonNotFound))

	scan := &analysis.ConflictScanRecord{
		ID: uuid.New(), VersionID: to.ID, Threshold: 0.75, Result: payload,
		ConflictCount: 2, OverallCompatibility: 0.8, RiskLevel: common.RiskMedium,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.SaveConflictScan(ctx, scan))

	gotScan, err := repo.GetConflictScan(ctx, to.ID)
	require.NoError(t, err)
	assert.Equal(t, common.RiskMedium, gotScan.RiskLevel)
}
