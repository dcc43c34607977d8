// Command seed-content loads the default localized documents for a fresh
// site: hero copy, service list, FAQ, contact details, and footer text in
// English and Indonesian.
//
// Writes are existing-wins per language key: a document that already carries
// the language is skipped entirely, so re-running the command after editors
// have made changes never clobbers their edits.
//
// Requires DATABASE_DSN (and the rest of the app configuration) to be set.
package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres"
	documentrepo "github.com/mitrafire/cms-backend/internal/adapter/postgres/document"
	"github.com/mitrafire/cms-backend/internal/app"
	"github.com/mitrafire/cms-backend/internal/cache"
	"github.com/mitrafire/cms-backend/internal/config"
	"github.com/mitrafire/cms-backend/internal/domain"
	contentsvc "github.com/mitrafire/cms-backend/internal/service/content"
)

// seedBatch is one collection-language unit of default content.
type seedBatch struct {
	language   string
	collection string
	data       map[string]json.RawMessage
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	svc := contentsvc.NewService(
		logger,
		documentrepo.New(pool),
		postgres.NewTxManager(pool),
		cache.New(16, cfg.Cache.Freshness, cfg.Cache.Retention, logger),
	)

	total := 0
	for _, batch := range defaultContent() {
		result, err := svc.SeedMissing(ctx, contentsvc.BatchWriteInput{
			Language:   batch.language,
			Collection: batch.collection,
			Data:       batch.data,
		})
		if err != nil {
			log.Fatalf("seed %s (%s): %v", batch.collection, batch.language, err)
		}
		total += result.Count
		logger.Info("seeded collection",
			slog.String("collection", batch.collection),
			slog.String("language", batch.language),
			slog.Int("count", result.Count),
		)
	}

	logger.Info("seeding complete", slog.Int("documents", total))
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func defaultContent() []seedBatch {
	return []seedBatch{
		{
			language:   "en",
			collection: domain.CollectionHero,
			data: map[string]json.RawMessage{
				"main": raw(`{
					"title": "Total Fire Protection Solutions",
					"subtitle": "Installation, inspection, and maintenance of fire safety systems for buildings across Indonesia.",
					"cta": "Request a Free Survey"
				}`),
			},
		},
		{
			language:   "id",
			collection: domain.CollectionHero,
			data: map[string]json.RawMessage{
				"main": raw(`{
					"title": "Solusi Proteksi Kebakaran Terpadu",
					"subtitle": "Instalasi, inspeksi, dan pemeliharaan sistem proteksi kebakaran untuk gedung di seluruh Indonesia.",
					"cta": "Minta Survei Gratis"
				}`),
			},
		},
		{
			language:   "en",
			collection: domain.CollectionServices,
			data: map[string]json.RawMessage{
				"hydrant":   raw(`{"title": "Hydrant Systems", "description": "Design, installation, and testing of hydrant networks."}`),
				"sprinkler": raw(`{"title": "Sprinkler Systems", "description": "Automatic sprinkler systems for commercial and industrial buildings."}`),
				"alarm":     raw(`{"title": "Fire Alarm Systems", "description": "Addressable and conventional detection with central monitoring."}`),
				"apar":      raw(`{"title": "Fire Extinguishers", "description": "Supply and scheduled refilling of portable extinguishers."}`),
			},
		},
		{
			language:   "id",
			collection: domain.CollectionServices,
			data: map[string]json.RawMessage{
				"hydrant":   raw(`{"title": "Sistem Hidran", "description": "Perancangan, instalasi, dan pengujian jaringan hidran."}`),
				"sprinkler": raw(`{"title": "Sistem Sprinkler", "description": "Sistem sprinkler otomatis untuk gedung komersial dan industri."}`),
				"alarm":     raw(`{"title": "Sistem Alarm Kebakaran", "description": "Deteksi addressable dan konvensional dengan pemantauan terpusat."}`),
				"apar":      raw(`{"title": "Alat Pemadam Api Ringan", "description": "Pengadaan dan pengisian ulang APAR terjadwal."}`),
			},
		},
		{
			language:   "en",
			collection: domain.CollectionFAQ,
			data: map[string]json.RawMessage{
				"inspection-interval": raw(`{"question": "How often should fire systems be inspected?", "answer": "Hydrants and sprinklers annually, alarms and extinguishers every six months."}`),
				"certification":       raw(`{"question": "Are your technicians certified?", "answer": "All field technicians hold current national fire safety certifications."}`),
			},
		},
		{
			language:   "id",
			collection: domain.CollectionFAQ,
			data: map[string]json.RawMessage{
				"inspection-interval": raw(`{"question": "Seberapa sering sistem proteksi kebakaran harus diinspeksi?", "answer": "Hidran dan sprinkler setiap tahun, alarm dan APAR setiap enam bulan."}`),
				"certification":       raw(`{"question": "Apakah teknisi Anda bersertifikat?", "answer": "Seluruh teknisi lapangan memiliki sertifikasi keselamatan kebakaran nasional yang berlaku."}`),
			},
		},
		{
			language:   "en",
			collection: domain.CollectionContact,
			data: map[string]json.RawMessage{
				"office": raw(`{"address": "Jakarta, Indonesia", "phone": "+62 21 0000 0000", "email": "info@mitrafire.co.id", "hours": "Mon-Fri 08:00-17:00"}`),
			},
		},
		{
			language:   "id",
			collection: domain.CollectionContact,
			data: map[string]json.RawMessage{
				"office": raw(`{"address": "Jakarta, Indonesia", "phone": "+62 21 0000 0000", "email": "info@mitrafire.co.id", "hours": "Sen-Jum 08.00-17.00"}`),
			},
		},
		{
			language:   "en",
			collection: domain.CollectionFooter,
			data: map[string]json.RawMessage{
				"main": raw(`{"tagline": "Protecting what matters since 2005.", "copyright": "All rights reserved."}`),
			},
		},
		{
			language:   "id",
			collection: domain.CollectionFooter,
			data: map[string]json.RawMessage{
				"main": raw(`{"tagline": "Melindungi yang terpenting sejak 2005.", "copyright": "Hak cipta dilindungi."}`),
			},
		},
	}
}
