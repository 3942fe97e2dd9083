package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/db"
	"github.com/chimgan/sales/internal/realtime"
	"github.com/chimgan/sales/internal/utils"
)

var allCollections = []string{
	db.ItemsCollection, db.CategoriesCollection, db.TagsCollection, db.InquiriesCollection,
	db.MessagesCollection, db.UsersCollection, db.SettingsCollection, db.EmailTemplatesCollection,
	db.APIEndpointsCollection,
}

func setupDB(t *testing.T, name string) *mongo.Database {
	database := utils.SetupTestDB(t, name, allCollections...)
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	return database
}

func testConfig() *config.Config {
	return &config.Config{
		RegionName:       "Mersin",
		DefaultLanguage:  "ru",
		DefaultCurrency:  "TRY",
		DailyUserAdLimit: 2,
		MinPasswordLen:   6,
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev realtime.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type recordingQueue struct {
	ids []utils.SixID
}

func (q *recordingQueue) EnqueueInquiryNotification(_ context.Context, id utils.SixID) error {
	q.ids = append(q.ids, id)
	return nil
}
