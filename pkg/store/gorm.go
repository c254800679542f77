package store

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
)

// document is the row layout of the documents table.
type document struct {
	Collection string `gorm:"primaryKey;size:32"`
	ID         string `gorm:"primaryKey;size:64"`
	Seq        int64  `gorm:"not null;index"`
	Body       string `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName implements gorm's tabler.
func (document) TableName() string {
	return "documents"
}

func (d document) toDocument() Document {
	return Document{ID: d.ID, Seq: d.Seq, Body: json.RawMessage(d.Body)}
}

// Gorm is a Store backed by a GORM database.
type Gorm struct {
	db     *gorm.DB
	owned  bool
	events *broker
}

// NewSQLite opens (or creates) the SQLite database at dsn and migrates the
// documents table. Use ":memory:" for a throwaway database.
func NewSQLite(dsn string) (*Gorm, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.WrapIO("open", dsn, err)
	}
	if sqlDB, err := db.DB(); err == nil {
		// ":memory:" databases exist per connection.
		sqlDB.SetMaxOpenConns(1)
	}
	s, err := NewGorm(db)
	if err != nil {
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewGorm uses an existing connection. The documents table is migrated.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, errors.WrapResource("migrate", "store", "documents", err)
	}
	s := &Gorm{db: db}
	s.events = newBroker(s.List)
	return s, nil
}

// Create implements Store.
func (s *Gorm) Create(ctx context.Context, collection string, record any) (string, error) {
	id, body, err := prepareCreate(collection, record)
	if err != nil {
		return "", err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&document{}).Where("collection = ? AND id = ?", collection, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return alreadyExists(collection, id)
		}
		var maxSeq int64
		if err := tx.Model(&document{}).Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
			return err
		}
		return tx.Create(&document{
			Collection: collection,
			ID:         id,
			Seq:        maxSeq + 1,
			Body:       string(body),
		}).Error
	})
	if err != nil {
		if errors.Is(err, errors.ErrAlreadyExists) {
			return "", err
		}
		return "", errors.WrapResource("create", singular(collection), id, err)
	}

	logging.FromContext(ctx).Debug().Str("collection", collection).Str("id", id).Msg("Created document")
	s.events.publish(ctx, collection)
	return id, nil
}

// Update implements Store.
func (s *Gorm) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, collection, id)
		if err != nil {
			return err
		}
		body, err := applyUpdate(json.RawMessage(row.Body), id, patch)
		if err != nil {
			return err
		}
		return tx.Model(&row).Update("body", string(body)).Error
	})
	if err != nil {
		return s.wrap("update", collection, id, err)
	}

	logging.FromContext(ctx).Debug().Str("collection", collection).Str("id", id).Int("fields", len(patch)).Msg("Updated document")
	s.events.publish(ctx, collection)
	return nil
}

// Replace implements Store.
func (s *Gorm) Replace(ctx context.Context, collection, id string, record any) error {
	body, err := prepareReplace(collection, id, record)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, collection, id)
		if err != nil {
			return err
		}
		return tx.Model(&row).Update("body", string(body)).Error
	})
	if err != nil {
		return s.wrap("replace", collection, id, err)
	}

	logging.FromContext(ctx).Debug().Str("collection", collection).Str("id", id).Msg("Replaced document")
	s.events.publish(ctx, collection)
	return nil
}

// Delete implements Store.
func (s *Gorm) Delete(ctx context.Context, collection, id string) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("collection = ? AND id = ?", collection, id).Delete(&document{})
	if res.Error != nil {
		return errors.WrapResource("delete", singular(collection), id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(collection, id)
	}

	logging.FromContext(ctx).Debug().Str("collection", collection).Str("id", id).Msg("Deleted document")
	s.events.publish(ctx, collection)
	return nil
}

// Get implements Store.
func (s *Gorm) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := checkKey(collection, id); err != nil {
		return Document{}, err
	}
	row, err := s.find(s.db.WithContext(ctx), collection, id)
	if err != nil {
		return Document{}, s.wrap("get", collection, id, err)
	}
	return row.toDocument(), nil
}

// List implements Store.
func (s *Gorm) List(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	var rows []document
	if err := s.db.WithContext(ctx).Where("collection = ?", collection).Order("seq").Find(&rows).Error; err != nil {
		return nil, errors.WrapResource("list", singular(collection), "", err)
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toDocument())
	}
	return docs, nil
}

// Subscribe implements Store.
func (s *Gorm) Subscribe(collection string, fn Listener) func() {
	return s.events.subscribe(collection, fn)
}

// Close closes the connection if the store opened it.
func (s *Gorm) Close() error {
	if !s.owned {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Gorm) find(tx *gorm.DB, collection, id string) (document, error) {
	var row document
	err := tx.Where("collection = ? AND id = ?", collection, id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, notFound(collection, id)
	}
	return row, err
}

// wrap passes typed errors through and wraps database failures.
func (s *Gorm) wrap(op, collection, id string, err error) error {
	if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrInvalidInput) {
		return err
	}
	var perr *errors.ParseError
	if errors.As(err, &perr) {
		return err
	}
	return errors.WrapResource(op, singular(collection), id, err)
}
