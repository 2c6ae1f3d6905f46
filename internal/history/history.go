package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists detection sessions in a local sqlite database.
type Store struct {
	db  *gorm.DB
	sql *sql.DB
}

// Session groups the detections of one capture or file run.
type Session struct {
	ID         uint `gorm:"primaryKey;autoIncrement"`
	StartedAt  time.Time
	SampleRate int
	BlockSize  int
	// Source names the input, e.g. "mic" or a file path.
	Source string
}

// Detection is one successful note detection within a session.
type Detection struct {
	ID        uint `gorm:"primaryKey;autoIncrement"`
	SessionID uint `gorm:"index:idx_session"`
	AtMs      int64
	Frequency float64
	MIDI      int
	Cents     float64
	RMS       float64
}

// Stats summarizes a session's detections.
type Stats struct {
	Detections    int
	MeanAbsCents  float64
	DominantMIDI  int
	DominantCount int
}

// Open opens (creating if necessary) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	if err := db.AutoMigrate(&Session{}, &Detection{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Store{db: db, sql: sqlDB}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

// BeginSession records a new session and returns its ID.
func (s *Store) BeginSession(source string, sampleRate, blockSize int) (uint, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("nil history store")
	}
	sess := Session{
		StartedAt:  time.Now(),
		SampleRate: sampleRate,
		BlockSize:  blockSize,
		Source:     source,
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return 0, fmt.Errorf("creating session: %w", err)
	}
	return sess.ID, nil
}

// RecordDetection appends one detection to a session.
func (s *Store) RecordDetection(sessionID uint, d Detection) error {
	if s == nil || s.db == nil {
		return errors.New("nil history store")
	}
	d.SessionID = sessionID
	if err := s.db.Create(&d).Error; err != nil {
		return fmt.Errorf("recording detection: %w", err)
	}
	return nil
}

// SessionStats computes summary statistics over a session's detections.
func (s *Store) SessionStats(sessionID uint) (Stats, error) {
	if s == nil || s.db == nil {
		return Stats{}, errors.New("nil history store")
	}

	var detections []Detection
	if err := s.db.Where("session_id = ?", sessionID).Find(&detections).Error; err != nil {
		return Stats{}, fmt.Errorf("querying detections: %w", err)
	}

	st := Stats{Detections: len(detections)}
	if len(detections) == 0 {
		return st, nil
	}

	counts := make(map[int]int)
	var absCents float64
	for _, d := range detections {
		if d.Cents < 0 {
			absCents -= d.Cents
		} else {
			absCents += d.Cents
		}
		counts[d.MIDI]++
	}
	st.MeanAbsCents = absCents / float64(len(detections))
	for midi, n := range counts {
		if n > st.DominantCount {
			st.DominantCount = n
			st.DominantMIDI = midi
		}
	}
	return st, nil
}
