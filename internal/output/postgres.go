// Package output provides the relational destination for analysis events:
// each event family lands in a warehouse-style fact table over pgx.
package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/chrisdamba/promolift/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxRetries = 3

type PostgresOutput struct {
	pool *pgxpool.Pool
}

func NewPostgresOutput(config *models.DatabaseConfig) (*PostgresOutput, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		config.User, config.Password, config.Host, config.Port, config.DBName, config.SSLMode,
	)

	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	p := &PostgresOutput{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return p, nil
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	table := topicToTable(topic)

	cols, vals, placeholders := buildInsertComponents(event)
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		cols,
		placeholders,
	)

	if err := p.execWithRetry(context.Background(), query, vals); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	return nil
}

func (p *PostgresOutput) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresOutput) execWithRetry(ctx context.Context, query string, args []interface{}) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err = p.pool.Exec(ctx, query, args...)
		if err == nil {
			return nil
		}
		if !retryablePgError(err) {
			return err
		}
		log.Printf("Retrying insert after transient error: %v", err)
		time.Sleep(time.Duration(attempt+1) * 100 * time.Millisecond)
	}
	return err
}

// retryablePgError reports whether the insert hit a transient server state:
// serialization failure, deadlock, or an unavailable lock.
func retryablePgError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}

// ensureSchema creates the fact tables on first connect so the sink works
// against an empty database. Every column is nullable: optional event fields
// are simply absent from their insert.
func (p *PostgresOutput) ensureSchema(ctx context.Context) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return tx.Commit(ctx)
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS fact_promotion_analysis (
        timestamp BIGINT,
        event_type TEXT,
        run_id TEXT,
        analysis_id TEXT,
        product_name TEXT,
        standard_price DOUBLE PRECISION,
        promo_price DOUBLE PRECISION,
        promo_terms TEXT,
        total_variable_cost DOUBLE PRECISION,
        standard_margin DOUBLE PRECISION,
        promo_margin DOUBLE PRECISION,
        margin_erosion DOUBLE PRECISION,
        breakeven_lift DOUBLE PRECISION,
        breakeven_units DOUBLE PRECISION,
        baseline_units DOUBLE PRECISION,
        baseline_profit DOUBLE PRECISION
    )`,
	`CREATE TABLE IF NOT EXISTS fact_promotion_scenario (
        timestamp BIGINT,
        event_type TEXT,
        run_id TEXT,
        analysis_id TEXT,
        product_name TEXT,
        lift DOUBLE PRECISION,
        units DOUBLE PRECISION,
        total_profit DOUBLE PRECISION,
        profit_delta DOUBLE PRECISION,
        profitable BOOLEAN
    )`,
	`CREATE TABLE IF NOT EXISTS fact_weekly_grade (
        timestamp BIGINT,
        event_type TEXT,
        run_id TEXT,
        analysis_id TEXT,
        product_name TEXT,
        week INTEGER,
        baseline_units DOUBLE PRECISION,
        actual_units DOUBLE PRECISION,
        actual_lift DOUBLE PRECISION,
        breakeven_lift DOUBLE PRECISION,
        lift_gap DOUBLE PRECISION,
        baseline_profit DOUBLE PRECISION,
        actual_profit DOUBLE PRECISION,
        profit_delta DOUBLE PRECISION,
        score DOUBLE PRECISION,
        grade TEXT,
        passed BOOLEAN
    )`,
	`CREATE TABLE IF NOT EXISTS fact_historical_summary (
        timestamp BIGINT,
        event_type TEXT,
        run_id TEXT,
        analysis_id TEXT,
        product_name TEXT,
        standard_margin DOUBLE PRECISION,
        promo_margin DOUBLE PRECISION,
        breakeven_lift DOUBLE PRECISION,
        weeks_graded INTEGER,
        weeks_passed INTEGER,
        total_baseline_units DOUBLE PRECISION,
        total_actual_units DOUBLE PRECISION,
        total_baseline_profit DOUBLE PRECISION,
        total_actual_profit DOUBLE PRECISION,
        overall_lift DOUBLE PRECISION,
        overall_profit_delta DOUBLE PRECISION,
        overall_score DOUBLE PRECISION,
        grade TEXT,
        passed BOOLEAN
    )`,
	`CREATE TABLE IF NOT EXISTS fact_analysis_error (
        timestamp BIGINT,
        event_type TEXT,
        run_id TEXT,
        analysis_id TEXT,
        product_name TEXT,
        source_file TEXT,
        line INTEGER,
        reason TEXT
    )`,
}

func topicToTable(topic string) string {
	tableMap := map[string]string{
		"promotion_analysis_events": "fact_promotion_analysis",
		"promotion_scenario_events": "fact_promotion_scenario",
		"weekly_grade_events":       "fact_weekly_grade",
		"historical_summary_events": "fact_historical_summary",
		"analysis_error_events":     "fact_analysis_error",
	}

	if table, ok := tableMap[topic]; ok {
		return table
	}
	// if no mapping found, derive the table name from the topic by removing
	// the _events suffix
	tableName := strings.TrimSuffix(topic, "_events")
	return "fact_" + tableName
}

func buildInsertComponents(event map[string]interface{}) (string, []interface{}, string) {
	// store columns and values in sorted order for consistent queries
	var columns []string
	var values []interface{}
	var placeholderNum int
	var placeholders []string

	keys := make([]string, 0, len(event))
	for k := range event {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := event[key]

		switch v := val.(type) {
		case map[string]interface{}:
			// nested objects land as JSONB text
			jsonBytes, err := json.Marshal(v)
			if err != nil {
				log.Printf("Error marshaling JSON for key %s: %v", key, err)
				continue
			}
			values = append(values, string(jsonBytes))
		default:
			values = append(values, v)
		}

		columns = append(columns, snakeCaseKey(key))
		placeholderNum++
		placeholders = append(placeholders, fmt.Sprintf("$%d", placeholderNum))
	}

	return strings.Join(columns, ", "),
		values,
		strings.Join(placeholders, ", ")
}

func snakeCaseKey(key string) string {
	var result strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}
