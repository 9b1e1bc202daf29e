package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE employees (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			department_id TEXT,
			full_name TEXT NOT NULL
		)`,
		`CREATE TABLE payroll_statements (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			period DATE NOT NULL,
			base_hours REAL NOT NULL DEFAULT 0,
			base_amount REAL NOT NULL DEFAULT 0,
			overtime_hours REAL NOT NULL DEFAULT 0,
			overtime_amount REAL NOT NULL DEFAULT 0,
			penalties_amount REAL NOT NULL DEFAULT 0,
			advances_amount REAL NOT NULL DEFAULT 0,
			total_amount REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'calculated',
			paid_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			deleted_at DATETIME
		)`,
		`CREATE UNIQUE INDEX uq_payroll_statement
			ON payroll_statements (employee_id, period)`,
		`CREATE TABLE payroll_calc_lines (
			id TEXT PRIMARY KEY,
			statement_id TEXT NOT NULL,
			type TEXT NOT NULL,
			description TEXT,
			amount REAL NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func testStatement() *Statement {
	return &Statement{
		ID:         uuid.New(),
		CompanyID:  companyID,
		EmployeeID: hourlyEmp,
		Period:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		BaseHours:  16.5,
		BaseAmount: 24750,
		Status:     StatusCalculated,
	}
}

func TestRepository_WithTx_RollbackDiscardsStatement(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	tx := db.Begin()
	require.NoError(t, tx.Error)

	require.NoError(t, repo.WithTx(tx).Create(context.Background(), testStatement()))
	require.NoError(t, tx.Rollback().Error)

	var count int64
	require.NoError(t, db.Table("payroll_statements").Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepository_WithTx_CommitPersistsStatement(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	st := testStatement()

	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, repo.WithTx(tx).Create(context.Background(), st))
	require.NoError(t, tx.Commit().Error)

	got, err := repo.FindByIDAndCompany(context.Background(), companyID.String(), st.ID.String())
	require.NoError(t, err)
	assert.Equal(t, st.ID, got.ID)
}

func TestReplaceLines_SwapsLineSet(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	st := testStatement()
	require.NoError(t, repo.Create(context.Background(), st))

	first := []CalcLine{
		{ID: uuid.New(), StatementID: st.ID, Type: LineBase, Amount: 24750},
		{ID: uuid.New(), StatementID: st.ID, Type: LinePenalty, Amount: -5000},
	}
	require.NoError(t, repo.ReplaceLines(context.Background(), st.ID.String(), first))

	second := []CalcLine{
		{ID: uuid.New(), StatementID: st.ID, Type: LineBase, Amount: 30000},
	}
	require.NoError(t, repo.ReplaceLines(context.Background(), st.ID.String(), second))

	var count int64
	require.NoError(t, db.Table("payroll_calc_lines").
		Where("statement_id = ?", st.ID.String()).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
