package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/shkiefer/tlm-parsing/internal/assemble"
	"github.com/shkiefer/tlm-parsing/internal/decode"
	"github.com/shkiefer/tlm-parsing/internal/storage"
	"github.com/shkiefer/tlm-parsing/internal/telemetry"
)

const storageDir = "data"

// Run decodes every configured recording and writes each one to its own
// SQLite database. Recordings are independent, so they are processed
// concurrently; within one recording decoding stays sequential because the
// session counter threads through the block stream.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	dataDir, err := resolveDataDir(&config.Storage)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, input := range config.Inputs {
		input := input
		g.Go(func() error {
			return processInput(ctx, input, dataDir, &config.Storage, logger)
		})
	}
	return g.Wait()
}

func processInput(ctx context.Context, input InputConfig, dataDir string, cfg *StorageConfig, logger *slog.Logger) error {
	source := input.Name
	if source == "" {
		source = filepath.Base(input.Path)
	}

	buf, err := readPayload(input)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}

	logger.Info("decoding recording",
		slog.String("source", source),
		slog.String("size", humanize.Bytes(uint64(len(buf)))))

	doc := decode.Decode(buf, source)
	table := assemble.Assemble(doc.Records)

	dbPath := filepath.Join(dataDir, dbFileName(source))
	var options []func(*storage.Store)
	if cfg.MaxBatchSize > 0 {
		options = append(options, storage.WithMaxBatchSize(cfg.MaxBatchSize))
	}
	store := storage.New(dbPath, options...)
	defer store.Close()

	if err := persist(ctx, store, doc, table); err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}

	logger.Info("stored recording",
		slog.String("source", source),
		slog.String("database", dbPath),
		slog.Int("sessions", len(doc.MainHeaders)),
		slog.Int("sensors", len(doc.SupplementalHeaders)),
		slog.String("records", humanize.Comma(int64(len(doc.Records)))),
		slog.String("rows", humanize.Comma(int64(len(table.Rows)))))
	return nil
}

// persist writes one decoded document. Stream session ids are mapped to
// database row ids; sessions that never produced a decodable main header
// (data recorded before the first one) get a placeholder row so their
// samples keep a parent.
func persist(ctx context.Context, store *storage.Store, doc *decode.Document, table *assemble.Table) error {
	sessionRows := make(map[int]int64)
	ensureSession := func(streamID int) (int64, error) {
		if id, ok := sessionRows[streamID]; ok {
			return id, nil
		}
		id, err := store.CreateSession(ctx, telemetry.MainHeader{
			SessionID: streamID,
			ModelType: telemetry.ModelType(0xFF),
			BindInfo:  telemetry.BindInfo(0xFF),
		}, doc.Source)
		if err != nil {
			return 0, fmt.Errorf("creating placeholder session %d: %w", streamID, err)
		}
		sessionRows[streamID] = id
		return id, nil
	}

	for _, hdr := range doc.MainHeaders {
		id, err := store.CreateSession(ctx, hdr, doc.Source)
		if err != nil {
			return fmt.Errorf("creating session %d: %w", hdr.SessionID, err)
		}
		sessionRows[hdr.SessionID] = id
	}

	sensors := make(map[int][]telemetry.SensorType)
	var sensorOrder []int
	for _, hdr := range doc.SupplementalHeaders {
		if _, ok := sensors[hdr.SessionID]; !ok {
			sensorOrder = append(sensorOrder, hdr.SessionID)
		}
		sensors[hdr.SessionID] = append(sensors[hdr.SessionID], hdr.Sensor)
	}
	for _, streamID := range sensorOrder {
		id, err := ensureSession(streamID)
		if err != nil {
			return err
		}
		if err := store.StoreSensors(ctx, id, sensors[streamID]); err != nil {
			return fmt.Errorf("storing sensors for session %d: %w", streamID, err)
		}
	}

	rows := make(map[int][]assemble.Row)
	var rowOrder []int
	for _, row := range table.Rows {
		if _, ok := rows[row.SessionID]; !ok {
			rowOrder = append(rowOrder, row.SessionID)
		}
		rows[row.SessionID] = append(rows[row.SessionID], row)
	}
	for _, streamID := range rowOrder {
		id, err := ensureSession(streamID)
		if err != nil {
			return err
		}
		if err := store.StoreRows(ctx, id, rows[streamID]); err != nil {
			return fmt.Errorf("storing rows for session %d: %w", streamID, err)
		}
	}
	return nil
}

func resolveDataDir(config *StorageConfig) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	dataDir := filepath.Join(wd, storageDir)
	if config.DataDirectory != "" {
		dataDir = filepath.Join(wd, config.DataDirectory)
	}

	stat, err := os.Stat(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("storage directory '%s' does not exist: %w", dataDir, err)
		}
		return "", fmt.Errorf("inspecting storage directory '%s': %w", dataDir, err)
	}
	if !stat.IsDir() {
		return "", fmt.Errorf("invalid storage directory '%s'", dataDir)
	}
	return dataDir, nil
}

func dbFileName(source string) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	return fmt.Sprintf("%s_%s.sqlite", base, time.Now().UTC().Format("20060102_150405"))
}
