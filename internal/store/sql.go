package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/i474232898/fuel-price-page/internal/fuel"
)

// priceRow is the persisted form of a fuel.PriceRecord.
type priceRow struct {
	ID         string    `gorm:"primaryKey"`
	ICAO       string    `gorm:"column:icao;size:4;not null;index:idx_price_icao_captured,priority:1"`
	Name       string    `gorm:"column:name"`
	Avgas      *float64  `gorm:"column:avgas"`
	SuperPlus  *float64  `gorm:"column:super_plus"`
	UL91       *float64  `gorm:"column:ul91"`
	CapturedAt time.Time `gorm:"column:captured_at;not null;index:idx_price_icao_captured,priority:2"`
}

// TableName specifies the table name for priceRow.
func (priceRow) TableName() string {
	return "price_records"
}

func (r priceRow) record() fuel.PriceRecord {
	return fuel.PriceRecord{
		ICAO:       r.ICAO,
		Name:       r.Name,
		Avgas:      r.Avgas,
		SuperPlus:  r.SuperPlus,
		UL91:       r.UL91,
		CapturedAt: r.CapturedAt.UTC(),
	}
}

// SQLStore keeps the price history in SQLite through gorm.
type SQLStore struct {
	db         *gorm.DB
	maxEntries int           // max rows per airport (<= 0 = unlimited)
	maxAge     time.Duration // max age of rows (<= 0 = unlimited)
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// migrates the schema. Use ":memory:" for a throwaway database.
func OpenSQLite(path string, maxEntries int, maxAge time.Duration) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// SQLite allows one writer; ":memory:" databases also exist per connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return NewSQLStore(db, maxEntries, maxAge)
}

// NewSQLStore wraps an existing gorm handle and migrates the schema.
// On write, each airport keeps at most maxEntries rows and drops rows older
// than maxAge; a limit <= 0 is not applied. The newest row is always kept.
func NewSQLStore(db *gorm.DB, maxEntries int, maxAge time.Duration) (*SQLStore, error) {
	if err := db.AutoMigrate(&priceRow{}); err != nil {
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return &SQLStore{db: db, maxEntries: maxEntries, maxAge: maxAge}, nil
}

// SaveRecord inserts a record and applies retention to the same airport.
func (s *SQLStore) SaveRecord(rec fuel.PriceRecord) error {
	row := priceRow{
		ID:         uuid.NewString(),
		ICAO:       rec.ICAO,
		Name:       rec.Name,
		Avgas:      rec.Avgas,
		SuperPlus:  rec.SuperPlus,
		UL91:       rec.UL91,
		CapturedAt: rec.CapturedAt.UTC(),
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if s.maxEntries > 0 {
			newest := tx.Model(&priceRow{}).
				Select("id").
				Where("icao = ?", rec.ICAO).
				Order("captured_at DESC").
				Limit(s.maxEntries)
			if err := tx.Where("icao = ? AND id NOT IN (?)", rec.ICAO, newest).
				Delete(&priceRow{}).Error; err != nil {
				return err
			}
		}
		if s.maxAge > 0 {
			latest := tx.Model(&priceRow{}).
				Select("id").
				Where("icao = ?", rec.ICAO).
				Order("captured_at DESC").
				Limit(1)
			cutoff := time.Now().UTC().Add(-s.maxAge)
			if err := tx.Where("icao = ? AND captured_at < ? AND id NOT IN (?)", rec.ICAO, cutoff, latest).
				Delete(&priceRow{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetLatest returns the most recent record for an airport.
func (s *SQLStore) GetLatest(icao string) (fuel.PriceRecord, error) {
	var row priceRow
	err := s.db.Where("icao = ?", icao).Order("captured_at DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fuel.PriceRecord{}, ErrNotFound
	}
	if err != nil {
		return fuel.PriceRecord{}, err
	}
	return row.record(), nil
}

// GetRange returns the records for an airport captured between from and to (inclusive).
func (s *SQLStore) GetRange(icao string, from, to time.Time) ([]fuel.PriceRecord, error) {
	var rows []priceRow
	err := s.db.Where("icao = ? AND captured_at >= ? AND captured_at <= ?", icao, from.UTC(), to.UTC()).
		Order("captured_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	result := make([]fuel.PriceRecord, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.record())
	}
	return result, nil
}

// Close releases the underlying database connection.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
