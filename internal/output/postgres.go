package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/shelfsim/internal/models"
)

const writeTimeout = 10 * time.Second

// Execer is satisfied by *pgxpool.Pool, pgx.Tx and *pgx.Conn.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOutput inserts every event as one row in the table for its topic.
type PostgresOutput struct {
	pool *pgxpool.Pool
	db   Execer
}

func NewPostgresOutput(ctx context.Context, databaseURL string) (*PostgresOutput, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	logrus.Info("Postgres event sink connected")
	return &PostgresOutput{pool: pool, db: pool}, nil
}

// NewPostgresOutputFrom writes through db and never closes it.
func NewPostgresOutputFrom(db Execer) *PostgresOutput {
	return &PostgresOutput{db: db}
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(msg))
	decoder.UseNumber()

	var event map[string]interface{}
	if err := decoder.Decode(&event); err != nil {
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

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if _, err := p.db.Exec(ctx, query, vals...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (p *PostgresOutput) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func topicToTable(topic string) string {
	tableMap := map[string]string{
		models.TopicOrderArrival:      "fact_order_arrival",
		models.TopicShelf:             "fact_shelf_event",
		models.TopicShelfSnapshot:     "fact_shelf_snapshot",
		models.TopicSimulationSummary: "fact_run_summary",
	}

	if table, ok := tableMap[topic]; ok {
		return table
	}
	return "fact_" + strings.TrimSuffix(topic, "_events")
}

func buildInsertComponents(event map[string]interface{}) (string, []interface{}, string) {
	keys := make([]string, 0, len(event))
	for k := range event {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns := make([]string, 0, len(keys))
	values := make([]interface{}, 0, len(keys))
	placeholders := make([]string, 0, len(keys))

	for _, key := range keys {
		switch v := event[key].(type) {
		case json.Number:
			if i, err := v.Int64(); err == nil {
				values = append(values, i)
			} else if f, err := v.Float64(); err == nil {
				values = append(values, f)
			} else {
				values = append(values, v.String())
			}
		case map[string]interface{}, []interface{}:
			jsonBytes, err := json.Marshal(v)
			if err != nil {
				logrus.Warnf("Error marshaling JSON for key %s: %v", key, err)
				continue
			}
			values = append(values, string(jsonBytes))
		default:
			values = append(values, v)
		}

		columns = append(columns, snakeCaseKey(key))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(placeholders)+1))
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
